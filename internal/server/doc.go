// Package server contains the local HTTP plumbing: the OAuth callback
// handler used by interactive sign-in and the router that exposes the
// message contract to UI clients.
package server
