// Package s3 reads SSM Run Command output that was written to an S3 bucket.
//
// GetCommandInvocation truncates inline output at 24,000 characters. When a
// command is sent with an output bucket, SSM writes the full stdout and
// stderr of each plugin step under
//
//	<prefix>/<command-id>/<instance-id>/<plugin>/<step>/{stdout,stderr}
//
// and [OutputStore.FetchCommandOutput] reassembles them.
package s3
