package probe

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/imamik/netverify/internal/config"
	awsplatform "github.com/imamik/netverify/internal/platform/aws"
)

// ReachableSSH builds the command for a probe that must connect: it logs in
// with the configured identity file.
func ReachableSSH(cfg config.SSHConfig, targetIP string) string {
	return fmt.Sprintf("timeout %d ssh -i %s -o StrictHostKeyChecking=no -o ConnectTimeout=%d %s@%s 'echo %s'",
		seconds(cfg.Timeout), cfg.IdentityFile, seconds(cfg.ConnectTimeout), cfg.User, targetIP, Sentinel)
}

// BlockedSSH builds the command for a probe that must not connect. It passes
// no identity file and points HOME at the configured directory, so only keys
// ssh finds there by default are offered.
func BlockedSSH(cfg config.SSHConfig, targetIP string) string {
	return fmt.Sprintf("HOME=%s timeout %d ssh -o StrictHostKeyChecking=no -o ConnectTimeout=%d %s@%s 'echo %s'",
		cfg.Home, seconds(cfg.Timeout), seconds(cfg.ConnectTimeout), cfg.User, targetIP, Sentinel)
}

// Plan returns the two probes for the given nodes: blue to orange must
// connect, orange to blue must not.
func Plan(nodes *awsplatform.Nodes, cfg config.SSHConfig) ([]Probe, error) {
	for _, inst := range []awsplatform.Instance{nodes.Blue, nodes.Orange} {
		if _, err := netip.ParseAddr(inst.PrivateIP); err != nil {
			return nil, fmt.Errorf("invalid private IP %q for %s: %w", inst.PrivateIP, inst.ID, err)
		}
	}

	return []Probe{
		{
			Title:       "Blue can SSH to Orange",
			PassMessage: "Blue can SSH to Orange",
			FailMessage: "Blue cannot SSH to Orange",
			Source:      nodes.Blue,
			Target:      nodes.Orange,
			Expect:      ExpectReachable,
			Command:     ReachableSSH(cfg, nodes.Orange.PrivateIP),
		},
		{
			Title:       "Orange cannot SSH to Blue",
			PassMessage: "Orange correctly cannot SSH to Blue",
			FailMessage: "Orange can SSH to Blue (this should not be possible)",
			Source:      nodes.Orange,
			Target:      nodes.Blue,
			Expect:      ExpectBlocked,
			Command:     BlockedSSH(cfg, nodes.Blue.PrivateIP),
		},
	}, nil
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
