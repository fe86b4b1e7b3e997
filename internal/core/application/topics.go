package application

// Topic identifies one of the state transitions observable by external
// subscribers. Every successful transition publishes exactly one message on
// its topic; failed transitions publish nothing.
type Topic int

const (
	TopicListingCreated Topic = iota
	TopicListingDeactivated
	TopicTradeStarted
	TopicFundsLocked
	TopicTradeMarkedPaid
	TopicTradeReleased
	TopicTradeRefunded
)

var topicLabels = map[Topic]string{
	TopicListingCreated:     "LISTING_CREATED",
	TopicListingDeactivated: "LISTING_DEACTIVATED",
	TopicTradeStarted:       "TRADE_STARTED",
	TopicFundsLocked:        "FUNDS_LOCKED",
	TopicTradeMarkedPaid:    "TRADE_MARKED_PAID",
	TopicTradeReleased:      "TRADE_RELEASED",
	TopicTradeRefunded:      "TRADE_REFUNDED",
}

// Code returns the numeric code of the topic.
func (t Topic) Code() int {
	return int(t)
}

// Label returns the string label of the topic.
func (t Topic) Label() string {
	return topicLabels[t]
}

// TopicsByLabel returns all the topics supported by the escrow service mapped
// by their label.
func TopicsByLabel() map[string]Topic {
	topics := make(map[string]Topic, len(topicLabels))
	for topic, label := range topicLabels {
		topics[label] = topic
	}
	return topics
}

// TopicLabels returns the labels of all supported topics.
func TopicLabels() []string {
	labels := make([]string, 0, len(topicLabels))
	for _, label := range topicLabels {
		labels = append(labels, label)
	}
	return labels
}
