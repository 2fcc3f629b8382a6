package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlink/backend/internal/models"
)

// MongoPostService stores posts with likes/comments embedded. Like/unlike and
// comment mutations are single-document atomic updates; the like filter embeds
// the at-most-one-like-per-user rule so two racing likes cannot both land.
type MongoPostService struct {
	postsCol *mongo.Collection
	users    UserService
}

func NewMongoPostService(ctx context.Context, db *mongo.Database, users UserService) *MongoPostService {
	col := db.Collection("posts")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	})

	return &MongoPostService{postsCol: col, users: users}
}

func (s *MongoPostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:     uuid.New().String(),
		UserID: userID,
		Text:   text,
		// Author fields are a snapshot; later user edits do not propagate.
		Name:      user.Name,
		Avatar:    user.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.postsCol.InsertOne(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *MongoPostService) List(ctx context.Context) ([]*models.Post, error) {
	cur, err := s.postsCol.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := make([]*models.Post, 0)
	for cur.Next(ctx) {
		var post models.Post
		if err := cur.Decode(&post); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, cur.Err()
}

func (s *MongoPostService) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *MongoPostService) Delete(ctx context.Context, userID, postID string) error {
	// Ensure ownership.
	var post models.Post
	if err := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}

	_, err := s.postsCol.DeleteOne(ctx, bson.M{"_id": postID})
	return err
}

func (s *MongoPostService) Like(ctx context.Context, userID, postID string) ([]models.Like, error) {
	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID, "likes.user": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": bson.M{"$each": []models.Like{{UserID: userID}}, "$position": 0}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var post models.Post
	if err := res.Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish missing post from an existing like.
			if err2 := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Err(); err2 == mongo.ErrNoDocuments {
				return nil, ErrPostNotFound
			}
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return post.Likes, nil
}

func (s *MongoPostService) Unlike(ctx context.Context, userID, postID string) ([]models.Like, error) {
	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID, "likes.user": userID},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var post models.Post
	if err := res.Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			if err2 := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Err(); err2 == mongo.ErrNoDocuments {
				return nil, ErrPostNotFound
			}
			return nil, ErrNotYetLiked
		}
		return nil, err
	}
	return post.Likes, nil
}

func (s *MongoPostService) AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now().UTC(),
	}

	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": bson.M{"$each": []models.Comment{comment}, "$position": 0}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var post models.Post
	if err := res.Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post.Comments, nil
}

func (s *MongoPostService) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	// The ownership check needs a read; the removal itself pulls by comment id
	// so exactly the named comment goes, never another one by the same author.
	var post models.Post
	if err := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var found *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			found = &post.Comments[i]
			break
		}
	}
	if found == nil {
		return nil, ErrCommentNotFound
	}
	if found.UserID != userID {
		return nil, ErrNotCommentOwner
	}

	res := s.postsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Post
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return updated.Comments, nil
}
