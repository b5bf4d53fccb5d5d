// Package publish forwards freshly fetched batches to a Kafka topic.
//
// Each successful batch becomes one JSON message keyed by its tag, so all
// batches for a tag land on the same partition in fetch order.
package publish
