package models

import "time"

// ProfileUser references the owning user. Only the id is persisted; name and
// avatar are joined from the user record when the profile is read, so they
// track later user edits instead of being snapshotted.
type ProfileUser struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"-"`
	Avatar string `json:"avatar" bson:"-"`
}

type Experience struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"id" bson:"_id"`
	School       string     `json:"school" bson:"school"`
	Degree       string     `json:"degree" bson:"degree"`
	FieldOfStudy string     `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time  `json:"from" bson:"from"`
	To           *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool       `json:"current" bson:"current"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
}

type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// Profile is one-per-user. Experience and education are newest-first: entries are
// prepended on insert, so insertion order is what the client sees, not date order.
type Profile struct {
	ID             string       `json:"id" bson:"_id"`
	User           ProfileUser  `json:"user" bson:"user"`
	Company        string       `json:"company,omitempty" bson:"company,omitempty"`
	Website        string       `json:"website,omitempty" bson:"website,omitempty"`
	Location       string       `json:"location,omitempty" bson:"location,omitempty"`
	Status         string       `json:"status" bson:"status"`
	Skills         []string     `json:"skills" bson:"skills"`
	Bio            string       `json:"bio,omitempty" bson:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Experience     []Experience `json:"experience" bson:"experience"`
	Education      []Education  `json:"education" bson:"education"`
	Social         SocialLinks  `json:"social" bson:"social"`
	CreatedAt      time.Time    `json:"date" bson:"date"`
}

// UpsertProfileRequest carries the flat wire shape: social links arrive at the top
// level and are folded into the nested social object. Pointer fields distinguish
// "omitted" from "set to empty" so updates merge instead of replacing.
type UpsertProfileRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Status         string  `json:"status"`
	Skills         string  `json:"skills"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

func (r *UpsertProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Status == "" {
		errors["status"] = "Status is required"
	}
	if r.Skills == "" {
		errors["skills"] = "Skills is required"
	}

	return errors
}

type AddExperienceRequest struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

func (r *AddExperienceRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Company == "" {
		errors["company"] = "Company is required"
	}
	if r.From.IsZero() {
		errors["from"] = "From date is required"
	}

	return errors
}

type AddEducationRequest struct {
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

func (r *AddEducationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.School == "" {
		errors["school"] = "School is required"
	}
	if r.Degree == "" {
		errors["degree"] = "Degree is required"
	}
	if r.FieldOfStudy == "" {
		errors["fieldofstudy"] = "Field of study is required"
	}
	if r.From.IsZero() {
		errors["from"] = "From date is required"
	}

	return errors
}
