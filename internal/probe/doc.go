// Package probe plans, runs and evaluates the two directional SSH probes.
//
// Probe A runs on blue and must reach orange. Probe B runs on orange and
// must not reach blue. Both run an ssh command that echoes [Sentinel] on the
// target, so "reached" means the remote command succeeded and the sentinel
// came back on stdout. Probes run one after the other; nothing is shared
// between them.
package probe
