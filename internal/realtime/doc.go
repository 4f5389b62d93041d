// Package realtime delivers row change events over redis pub/sub.
//
// The server publishes every change to "rt:<table>" and to one
// "rt:<table>:<filter>" channel per filter it knows about (for example
// "rt:comments:list_id=eq.42"). Clients subscribe one Channel per logical
// topic. A Channel moves Subscribing -> Active -> Unsubscribing -> Closed;
// a dropped connection moves it to Closed without reconnecting.
package realtime
