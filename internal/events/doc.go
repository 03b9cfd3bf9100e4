// Package events provides a small in-process publish/subscribe layer.
//
// Services emit events without knowing who handles them; handlers such as
// the attempt-log writer register with an emitter at startup.
package events
