package protocol

// Event names pushed over the realtime channel. The channel is one-way;
// inbound frames are read only to keep the connection healthy.
const (
	EventPriceUpdate     = "priceUpdate"
	EventOrderBookUpdate = "orderBookUpdate"
)

// PushEvent is the envelope for every message sent to a client.
type PushEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
