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

// MongoProfileService stores one document per user with experience/education
// embedded. Nested-list mutations use single-document atomic operators
// ($push with $position, $pull by entry id), so concurrent calls against the
// same profile cannot lose each other's updates.
type MongoProfileService struct {
	profilesCol *mongo.Collection
	usersCol    *mongo.Collection
	users       UserService
}

func NewMongoProfileService(ctx context.Context, db *mongo.Database, users UserService) *MongoProfileService {
	col := db.Collection("profiles")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user.id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoProfileService{
		profilesCol: col,
		usersCol:    db.Collection("users"),
		users:       users,
	}
}

func (s *MongoProfileService) withOwner(ctx context.Context, prof *models.Profile) *models.Profile {
	if user, err := s.users.GetByID(ctx, prof.User.ID); err == nil {
		prof.User.Name = user.Name
		prof.User.Avatar = user.Avatar
	}
	return prof
}

func (s *MongoProfileService) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	set := bson.M{
		"status": req.Status,
		"skills": ParseSkills(req.Skills),
	}
	if req.Company != nil {
		set["company"] = *req.Company
	}
	if req.Website != nil {
		set["website"] = *req.Website
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.GithubUsername != nil {
		set["githubusername"] = *req.GithubUsername
	}
	if req.Youtube != nil {
		set["social.youtube"] = *req.Youtube
	}
	if req.Twitter != nil {
		set["social.twitter"] = *req.Twitter
	}
	if req.Facebook != nil {
		set["social.facebook"] = *req.Facebook
	}
	if req.Linkedin != nil {
		set["social.linkedin"] = *req.Linkedin
	}
	if req.Instagram != nil {
		set["social.instagram"] = *req.Instagram
	}

	setOnInsert := bson.M{
		"_id":        uuid.New().String(),
		"user.id":    userID,
		"experience": []models.Experience{},
		"education":  []models.Education{},
		"date":       time.Now().UTC(),
	}

	if _, err := s.profilesCol.UpdateOne(
		ctx,
		bson.M{"user.id": userID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	); err != nil {
		return nil, err
	}

	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user.id": userID}).Decode(&prof); err != nil {
		return nil, err
	}
	return s.withOwner(ctx, &prof), nil
}

func (s *MongoProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	cur, err := s.profilesCol.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]*models.Profile, 0)
	userIDs := make([]string, 0)
	for cur.Next(ctx) {
		var prof models.Profile
		if err := cur.Decode(&prof); err != nil {
			return nil, err
		}
		profiles = append(profiles, &prof)
		userIDs = append(userIDs, prof.User.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	// Batch the owner join instead of one lookup per profile.
	ownerCur, err := s.usersCol.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}},
		options.Find().SetProjection(bson.M{"name": 1, "avatar": 1}))
	if err != nil {
		return nil, err
	}
	defer ownerCur.Close(ctx)

	type ownerDoc struct {
		ID     string `bson:"_id"`
		Name   string `bson:"name"`
		Avatar string `bson:"avatar"`
	}
	owners := make(map[string]ownerDoc)
	for ownerCur.Next(ctx) {
		var d ownerDoc
		if err := ownerCur.Decode(&d); err != nil {
			return nil, err
		}
		owners[d.ID] = d
	}
	if err := ownerCur.Err(); err != nil {
		return nil, err
	}

	for _, prof := range profiles {
		if owner, ok := owners[prof.User.ID]; ok {
			prof.User.Name = owner.Name
			prof.User.Avatar = owner.Avatar
		}
	}
	return profiles, nil
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user.id": userID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.withOwner(ctx, &prof), nil
}

func (s *MongoProfileService) Delete(ctx context.Context, userID string) error {
	// Profile first; if this fails the user record stays intact.
	if _, err := s.profilesCol.DeleteOne(ctx, bson.M{"user.id": userID}); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

func (s *MongoProfileService) AddExperience(ctx context.Context, userID string, req *models.AddExperienceRequest) (*models.Profile, error) {
	entry := models.Experience{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"user.id": userID},
		bson.M{"$push": bson.M{"experience": bson.M{"$each": []models.Experience{entry}, "$position": 0}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.withOwner(ctx, &prof), nil
}

func (s *MongoProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*models.Profile, error) {
	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"user.id": userID, "experience._id": entryID},
		bson.M{"$pull": bson.M{"experience": bson.M{"_id": entryID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish missing profile from missing entry.
			if err2 := s.profilesCol.FindOne(ctx, bson.M{"user.id": userID}).Err(); err2 == mongo.ErrNoDocuments {
				return nil, ErrProfileNotFound
			}
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	return s.withOwner(ctx, &prof), nil
}

func (s *MongoProfileService) AddEducation(ctx context.Context, userID string, req *models.AddEducationRequest) (*models.Profile, error) {
	entry := models.Education{
		ID:           uuid.New().String(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"user.id": userID},
		bson.M{"$push": bson.M{"education": bson.M{"$each": []models.Education{entry}, "$position": 0}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.withOwner(ctx, &prof), nil
}

func (s *MongoProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*models.Profile, error) {
	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"user.id": userID, "education._id": entryID},
		bson.M{"$pull": bson.M{"education": bson.M{"_id": entryID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			if err2 := s.profilesCol.FindOne(ctx, bson.M{"user.id": userID}).Err(); err2 == mongo.ErrNoDocuments {
				return nil, ErrProfileNotFound
			}
			return nil, ErrEducationNotFound
		}
		return nil, err
	}
	return s.withOwner(ctx, &prof), nil
}
