package subscriptions

// Keys holds the client encryption keys of a browser push subscription.
// They are opaque here and passed through to the push transport verbatim.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription is one registered push endpoint for a user. The endpoint URL
// is the uniqueness key within a user's subscription list.
type Subscription struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}
