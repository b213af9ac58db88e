// Package iotc connects devices to the device-management service.
//
// A Factory turns credential.Credentials into a connected Client. The
// DPSFactory implementation registers the device with the device
// provisioning service over its REST API:
//
//  1. PUT {scope}/registrations/{device}/register with a SAS token signed
//     by the device key and the model ID as registration payload
//  2. while the service answers "assigning", poll the operation status,
//     spacing polls by the Retry-After hint or a capped exponential schedule
//  3. on "assigned", return a Client bound to the assigned hub
//
// Each Connect call is a single attempt. A failed registration is never
// retried and no partially connected Client is returned; the only time
// bound is the caller's context.
//
// Clients come out with their log level at LogLevelAll.
package iotc
