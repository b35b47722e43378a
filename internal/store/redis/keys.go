package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixCategory is the prefix for category document keys
	KeyPrefixCategory = "refdeck:category:"
	// KeyAllCategories is the key for the set of all category IDs
	KeyAllCategories = "refdeck:categories:all"

	// KeyPrefixLink is the prefix for link document keys
	KeyPrefixLink = "refdeck:link:"
	// KeyAllLinks is the key for the set of all link members across
	// every category (the cross-parent group query)
	KeyAllLinks = "refdeck:links:all"

	// KeyPrefixNotification is the prefix for notification document keys
	KeyPrefixNotification = "refdeck:notification:"
	// KeyNotificationsByTime is the sorted set ordering notifications
	// by event timestamp (score = unix milliseconds)
	KeyNotificationsByTime = "refdeck:notifications:by-time"
)

const (
	// ChannelCategories carries a ping per category collection commit
	ChannelCategories = "refdeck:events:categories"
	// ChannelLinks carries a ping per link commit, any parent
	ChannelLinks = "refdeck:events:links"
	// ChannelNotifications carries a ping per notification commit
	ChannelNotifications = "refdeck:events:notifications"
)

// CategoryKey returns the Redis key for a category document
func CategoryKey(id string) string {
	return KeyPrefixCategory + id
}

// LinkKey returns the Redis key for a link document under its category
func LinkKey(categoryID, linkID string) string {
	return KeyPrefixLink + categoryID + ":" + linkID
}

// NotificationKey returns the Redis key for a notification document
func NotificationKey(id string) string {
	return KeyPrefixNotification + id
}

// LinkMember encodes a link's identity for the all-links set.
// The parent lives in the member, not in the document body.
func LinkMember(categoryID, linkID string) string {
	return categoryID + "/" + linkID
}

// SplitLinkMember decodes an all-links set member back into its parts
func SplitLinkMember(member string) (categoryID, linkID string, err error) {
	categoryID, linkID, ok := strings.Cut(member, "/")
	if !ok || categoryID == "" || linkID == "" {
		return "", "", fmt.Errorf("invalid link member: %s", member)
	}
	return categoryID, linkID, nil
}
