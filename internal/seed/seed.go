// Package seed provides database seeding utilities for development and
// testing. All seeded users share the password "password123".
package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores a plaintext marker instead of a hash. Seeded
	// logins stop working, but large runs get much faster.
	SkipBcrypt bool
}

// Seeder populates the database with generated content.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
	// seq keeps generated post titles, and therefore slugs, unique
	// within a run.
	seq int
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seed data
	return &Seeder{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Run seeds users, the follow mesh, posts, and engagement in order.
func (s *Seeder) Run() error {
	log.Printf("🌱 Seeding %d users and %d posts...", s.opts.NumUsers, s.opts.NumPosts)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := s.CreateUsers(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	if err := s.SeedFollowMesh(users); err != nil {
		return fmt.Errorf("failed to seed follow mesh: %w", err)
	}

	posts, err := s.CreatePosts(users, s.opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := s.SeedEngagement(users, posts); err != nil {
		return fmt.Errorf("failed to seed engagement: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll removes seeded content. Ordered so foreign keys stay satisfied
// on databases without cascading truncation.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	for _, table := range []string{"comments", "favorites", "posts", "follows", "avatars", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateUser builds and persists a single user. Overrides run before the
// record is saved.
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Bio:       gofakeit.Sentence(10),
		Role:      models.RoleUser,
	}

	if s.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUsers persists n generated users.
func (s *Seeder) CreateUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedFollowMesh wires a sparse follow graph: each user follows roughly a
// third of the others.
func (s *Seeder) SeedFollowMesh(users []*models.User) error {
	var edges []models.Follow
	for _, follower := range users {
		for _, followed := range users {
			if follower.ID == followed.ID {
				continue
			}
			if s.rand.Intn(3) != 0 {
				continue
			}
			edges = append(edges, models.Follow{
				FollowerID: follower.ID,
				FollowedID: followed.ID,
			})
		}
	}
	if len(edges) == 0 {
		return nil
	}
	if err := s.db.Create(&edges).Error; err != nil {
		return err
	}
	log.Printf("✓ %d follow edges created", len(edges))
	return nil
}

// CreatePost builds and persists a post for the given author. Roughly one
// post in five stays a draft.
func (s *Seeder) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	s.seq++
	title := fmt.Sprintf("%s %d", gofakeit.Sentence(4), s.seq)
	post := &models.Post{
		Title:       title,
		Slug:        service.Slugify(title),
		Description: gofakeit.Sentence(12),
		Content:     gofakeit.Paragraph(3, 5, 12, "\n\n"),
		AuthorID:    author.ID,
		Published:   s.rand.Intn(5) != 0,
	}
	if post.Published {
		post.ViewCount = uint(s.rand.Intn(500))
	}

	// realistic created_at spread over the past 90 days
	daysBack := time.Duration(s.rand.Intn(90)) * 24 * time.Hour
	post.CreatedAt = time.Now().Add(-daysBack - time.Duration(s.rand.Intn(24))*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePosts persists n generated posts spread across the given authors.
func (s *Seeder) CreatePosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post, err := s.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedEngagement adds favorites and comments to published posts.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post) error {
	var favorites, comments int
	for _, post := range posts {
		if !post.Published {
			continue
		}
		for _, user := range users {
			if s.rand.Intn(4) == 0 {
				edge := models.Favorite{UserID: user.ID, PostID: post.ID}
				if err := s.db.Create(&edge).Error; err != nil {
					return err
				}
				favorites++
			}
			if s.rand.Intn(6) == 0 {
				comment := models.Comment{
					Body:     gofakeit.Sentence(gofakeit.Number(5, 20)),
					AuthorID: user.ID,
					PostID:   post.ID,
				}
				if err := s.db.Create(&comment).Error; err != nil {
					return err
				}
				comments++
			}
		}
	}
	log.Printf("✓ %d favorites and %d comments created", favorites, comments)
	return nil
}

// EnsureAdmin creates the admin account if no user with the given email
// exists. Existing accounts are left untouched.
func EnsureAdmin(db *gorm.DB, username, email, password string) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
