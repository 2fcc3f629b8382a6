package models

import "time"

type Like struct {
	UserID string `json:"user" bson:"user"`
}

type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user" bson:"user"`
	Text      string    `json:"text" bson:"text"`
	Name      string    `json:"name" bson:"name"`
	Avatar    string    `json:"avatar" bson:"avatar"`
	CreatedAt time.Time `json:"date" bson:"date"`
}

// Post snapshots the author's name/avatar at creation time. Later edits to the
// user record do not propagate, same as for comments.
type Post struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user" bson:"user"`
	Text      string    `json:"text" bson:"text"`
	Name      string    `json:"name" bson:"name"`
	Avatar    string    `json:"avatar" bson:"avatar"`
	Likes     []Like    `json:"likes" bson:"likes"`
	Comments  []Comment `json:"comments" bson:"comments"`
	CreatedAt time.Time `json:"date" bson:"date"`
}

type CreatePostRequest struct {
	Text string `json:"text"`
}

func (r *CreatePostRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Text == "" {
		errors["text"] = "Text is required"
	}

	return errors
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

func (r *AddCommentRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Text == "" {
		errors["text"] = "Text is required"
	}

	return errors
}
