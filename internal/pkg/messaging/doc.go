// Package messaging provides a broker-agnostic API for publishing messages.
//
// Business code depends on Publisher only; the concrete broker (Kafka, NATS,
// NSQ, Google Pub/Sub) is picked by configuration through NewFromDriver.
package messaging
