// Package multiauth stitches multiple authentication policies into a single
// composite policy.
//
// A MultiPolicy holds an ordered list of sub-policies and implements the same
// Policy interface they do, so it can be installed anywhere a single policy
// is expected. Identity comes from the first sub-policy that produces one;
// principals and remember/forget headers are merged across all sub-policies.
// Policies can be declared in flat key/value settings and resolved through a
// factory registry at commit time.
package multiauth
