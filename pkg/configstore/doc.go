// Package configstore holds the application's device configuration slot.
//
// The slot starts unset and is written at most once per session, either
// with a connected device client or as a simulated connection. Front-ends
// subscribe to observe the single CONNECT action.
package configstore
