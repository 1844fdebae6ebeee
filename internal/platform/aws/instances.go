package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/netverify/internal/util/naming"
)

// ErrUnexpectedInstances is returned when the lookup does not find exactly
// one blue and one orange instance.
var ErrUnexpectedInstances = errors.New("expected 2 instances (blue and orange)")

// Instance describes a running EC2 instance taking part in the check.
type Instance struct {
	ID        string
	PrivateIP string
	// Name is the full Name tag value, e.g. "blue-server".
	Name string
	// Canonical is "blue" or "orange".
	Canonical string
}

// Nodes holds the two instances the policy is verified between.
type Nodes struct {
	Blue   Instance
	Orange Instance
}

// FindNodes looks up the running instances whose Name tag contains "blue"
// or "orange" and maps them onto canonical names. It fails with
// ErrUnexpectedInstances unless exactly blue and orange are found. When
// several instances map onto the same canonical name, the last one returned
// by EC2 wins.
func (c *Client) FindNodes(ctx context.Context) (*Nodes, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("tag:" + naming.NameTagKey),
				Values: naming.TagFilterValues(),
			},
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{string(ec2types.InstanceStateNameRunning)},
			},
		},
	}

	found := make(map[string]Instance)
	var order []string

	paginator := ec2.NewDescribeInstancesPaginator(c.ec2, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				name := nameTag(inst.Tags)
				if name == "" {
					continue
				}

				canonical := naming.Canonical(name)
				if prev, dup := found[canonical]; dup {
					c.log.Info("multiple instances map to the same node, keeping the last",
						"node", canonical, "dropped", prev.ID, "kept", aws.ToString(inst.InstanceId))
				} else {
					order = append(order, canonical)
				}

				found[canonical] = Instance{
					ID:        aws.ToString(inst.InstanceId),
					PrivateIP: aws.ToString(inst.PrivateIpAddress),
					Name:      name,
					Canonical: canonical,
				}
			}
		}
	}

	blue, hasBlue := found[naming.Blue]
	orange, hasOrange := found[naming.Orange]
	if len(found) != 2 || !hasBlue || !hasOrange {
		names := make([]string, 0, len(order))
		for _, key := range order {
			names = append(names, found[key].Name)
		}
		return nil, fmt.Errorf("%w, found %d: %v", ErrUnexpectedInstances, len(found), names)
	}

	for _, inst := range []Instance{blue, orange} {
		if inst.PrivateIP == "" {
			return nil, fmt.Errorf("instance %s (%s) has no private IP address", inst.ID, inst.Name)
		}
	}

	c.log.V(1).Info("found nodes", "blue", blue.ID, "orange", orange.ID)
	return &Nodes{Blue: blue, Orange: orange}, nil
}

// nameTag returns the value of the Name tag, or "" when absent.
func nameTag(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == naming.NameTagKey {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
