// Package naming maps EC2 Name tag values onto the canonical node names
// used throughout netverify.
//
// Instances are tagged with free-form names such as "blue-server" or
// "Orange-Web". Only the colour matters, so tag values are reduced to
// "blue" or "orange" by case-insensitive substring match.
package naming
