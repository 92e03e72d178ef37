// Package serializers shapes models into API responses.
package serializers

import (
	"time"

	"github.com/kendall-kelly/furniture-store-api/models"
	"github.com/shopspring/decimal"
)

// Money formats an amount with exactly two decimal places
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// User is the full profile of an account
type User struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	AccountPic string `json:"account_pic"`
	IsAdmin    bool   `json:"is_admin"`
}

// NewUser renders the full profile of u
func NewUser(u *models.User) User {
	return User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		AccountPic: u.AccountPic,
		IsAdmin:    u.IsAdmin,
	}
}

// NewUsers renders a list of profiles
func NewUsers(users []models.User) []User {
	out := make([]User, 0, len(users))
	for i := range users {
		out = append(out, NewUser(&users[i]))
	}
	return out
}

// UserSummary is returned by login and token validation
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserSummary renders the id, username and email of u
func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Category is a furniture category
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewCategory returns nil for a nil category so uncategorised furniture renders null
func NewCategory(c *models.FurnitureCategory) *Category {
	if c == nil {
		return nil
	}
	return &Category{ID: c.ID, Name: c.Name}
}

// NewCategories renders a list of categories
func NewCategories(categories []models.FurnitureCategory) []Category {
	out := make([]Category, 0, len(categories))
	for i := range categories {
		out = append(out, *NewCategory(&categories[i]))
	}
	return out
}

// Review is a rating left by a user
type Review struct {
	ID        uint      `json:"id"`
	User      User      `json:"user"`
	Furniture uint      `json:"furniture"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReview expects r.User to be loaded
func NewReview(r *models.Review) Review {
	return Review{
		ID:        r.ID,
		User:      NewUser(&r.User),
		Furniture: r.FurnitureID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// NewReviews renders a list of reviews
func NewReviews(reviews []models.Review) []Review {
	out := make([]Review, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReview(&reviews[i]))
	}
	return out
}
