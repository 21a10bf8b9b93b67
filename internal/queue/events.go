package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventPostLiked      = "post_liked"
	EventPostUnliked    = "post_unliked"
	EventCommentAdded   = "comment_added"
	EventCommentDeleted = "comment_deleted"
)

const StreamActivity = "stream:activity"

// ConsumerGroupActivity is shared by every activity worker.
const ConsumerGroupActivity = "activity_workers"

// ActivityEvent is one entry of the activity stream.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // unix seconds

	PostID   int64 `json:"post_id"`
	AuthorID int64 `json:"author_id"` // owner of the post

	// Set for like and comment events.
	ActorID   int64 `json:"actor_id,omitempty"`
	CommentID int64 `json:"comment_id,omitempty"`
}

func newEvent(eventType string, postID, authorID int64) ActivityEvent {
	return ActivityEvent{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

func NewPostCreatedEvent(postID, authorID int64) ActivityEvent {
	return newEvent(EventPostCreated, postID, authorID)
}

func NewPostDeletedEvent(postID, authorID int64) ActivityEvent {
	return newEvent(EventPostDeleted, postID, authorID)
}

// NewPostLikedEvent records actorID liking a post owned by authorID.
func NewPostLikedEvent(postID, authorID, actorID int64) ActivityEvent {
	e := newEvent(EventPostLiked, postID, authorID)
	e.ActorID = actorID
	return e
}

func NewPostUnlikedEvent(postID, authorID, actorID int64) ActivityEvent {
	e := newEvent(EventPostUnliked, postID, authorID)
	e.ActorID = actorID
	return e
}

func NewCommentAddedEvent(postID, authorID, actorID, commentID int64) ActivityEvent {
	e := newEvent(EventCommentAdded, postID, authorID)
	e.ActorID = actorID
	e.CommentID = commentID
	return e
}

func NewCommentDeletedEvent(postID, authorID, actorID, commentID int64) ActivityEvent {
	e := newEvent(EventCommentDeleted, postID, authorID)
	e.ActorID = actorID
	e.CommentID = commentID
	return e
}

// ToMap converts the event to XADD field-value pairs. The full event is JSON in "data".
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
