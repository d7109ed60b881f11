// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"alcove/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// DryRun builds entities without writing to the database.
	DryRun bool
	// MaxDays is how far back post timestamps are spread. Defaults to 90.
	MaxDays int
	// SkipBcrypt stores the plaintext password instead of hashing it.
	// Only useful to speed up very large local seeds.
	SkipBcrypt bool
}

var (
	guestNames = []string{
		"Anonymous", "Anonymous", "Visitor", "Lurker", "Passerby",
		"Old Reader", "First Timer", "Night Owl", "RSS Subscriber",
	}

	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
		"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
		"Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
		"Kenneth", "Dorothy", "Kevin", "Carol", "Brian", "Amanda", "George", "Melissa",
		"Edward", "Deborah", "Ronald", "Stephanie", "Timothy", "Rebecca", "Jason", "Sharon",
		"Jeffrey", "Laura", "Ryan", "Cynthia", "Jacob", "Kathleen", "Gary", "Amy",
		"Nicholas", "Shirley", "Eric", "Angela", "Jonathan", "Helen", "Stephen", "Anna",
		"Larry", "Brenda", "Justin", "Pamela", "Scott", "Nicole", "Brandon", "Emma",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
		"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
		"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
		"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
		"Carter", "Roberts", "Gomez", "Phillips", "Evans", "Turner", "Diaz", "Parker",
		"Cruz", "Edwards", "Collins", "Reyes", "Stewart", "Morris", "Morales", "Murphy",
	}

	adjectives = []string{
		"amazing", "incredible", "fascinating", "challenging", "excited", "happy", "proud",
		"grateful", "inspired", "motivated", "curious", "passionate", "creative", "innovative",
		"collaborative", "productive", "efficient", "effective", "powerful", "simple", "complex",
		"beautiful", "elegant", "robust", "scalable", "secure", "fast", "reliable", "dynamic",
		"intense", "focused", "driven", "ambitious", "humble", "thoughtful", "kind",
	}

	nouns = []string{
		"project", "essay", "garden", "code", "design", "architecture", "system", "app",
		"website", "platform", "framework", "library", "tool", "solution", "idea", "concept",
		"challenge", "opportunity", "goal", "dream", "journey", "experience", "lesson", "skill",
		"technology", "innovation", "future", "world", "life", "work", "passion", "hobby",
	}

	verbs = []string{
		"built", "created", "designed", "developed", "launched", "deployed", "shipped",
		"fixed", "solved", "learned", "discovered", "explored", "mastered", "shared",
		"wrote", "read", "watched", "listened", "played", "enjoyed", "loved", "revisited",
		"improved", "optimized", "refactored", "debugged", "tested", "validated",
	}
)

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := createPosts(f, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	comments, err := createComments(f, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", len(comments))

	likeCount, err := createLikes(f, users, posts, comments)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d ledger likes created", likeCount)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE likes, comments, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func generateRandomName() (string, string) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	first := firstNames[r.Intn(len(firstNames))]
	last := lastNames[r.Intn(len(lastNames))]
	return first, last
}

func generateUsername(first, last string) string {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	formats := []string{"%s%s", "%s.%s", "%s_%s", "%s%d", "%s_%d"}
	format := formats[r.Intn(len(formats))]

	switch format {
	case "%s%d", "%s_%d":
		return strings.ToLower(fmt.Sprintf(format, first, r.Intn(1000)))
	default:
		return strings.ToLower(fmt.Sprintf(format, first, last))
	}
}

func generateSentence() string {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	adj := adjectives[r.Intn(len(adjectives))]
	noun := nouns[r.Intn(len(nouns))]
	verb := verbs[r.Intn(len(verbs))]

	templates := []string{
		"Just %s an %s %s.",
		"The %s %s was %s.",
		"I %s this %s %s!",
		"What an %s %s to %s.",
		"Time to %s the %s %s.",
	}

	template := templates[r.Intn(len(templates))]
	return fmt.Sprintf(template, verb, adj, noun)
}

func generateParagraph(sentences int) string {
	var sb strings.Builder
	for i := 0; i < sentences; i++ {
		sb.WriteString(generateSentence())
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Always include some specific users for consistency if cleaning
	if count >= 2 {
		baseUsers := []struct {
			username string
			role     string
		}{
			{"alcove_admin", models.RoleAdmin},
			{"test", models.RoleSubscriber},
		}
		for _, u := range baseUsers {
			user := models.User{
				Username: u.username,
				Email:    fmt.Sprintf("%s@example.com", u.username),
				Password: string(hashedPassword),
				Role:     u.role,
			}
			if err := db.Create(&user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		first, last := generateRandomName()
		username := generateUsername(first, last)

		// Ensure uniqueness roughly
		username = fmt.Sprintf("%s%d", username, i)

		user := models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashedPassword),
			Role:     models.RoleSubscriber,
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(f *Factory, users []models.User, count int) ([]*models.Post, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, count)

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		posts = append(posts, f.BuildPost(&user))
	}

	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func createComments(f *Factory, users []models.User, posts []*models.Post) ([]*models.Comment, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	comments := make([]*models.Comment, 0, len(posts)*3)

	for _, post := range posts {
		n := r.Intn(6) // 0 to 5 comments per post
		for i := 0; i < n; i++ {
			var comment *models.Comment
			var err error
			if r.Float32() < 0.4 {
				// guest comment; empty name falls back to the default
				name := ""
				if r.Float32() < 0.7 {
					name = guestNames[r.Intn(len(guestNames))]
				}
				comment, err = f.CreateGuestComment(post, name)
			} else {
				user := users[r.Intn(len(users))]
				comment, err = f.CreateUserComment(post, &user)
			}
			if err != nil {
				return nil, err
			}
			comments = append(comments, comment)
		}
	}

	return comments, nil
}

// createLikes writes ledger rows and keeps each target's like_count equal
// to the number of rows written for it.
func createLikes(f *Factory, users []models.User, posts []*models.Post, comments []*models.Comment) (int, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	total := 0

	for _, post := range posts {
		// a random subset of registered users likes each post
		for _, user := range users {
			if r.Float32() < 0.15 {
				if err := f.CreateUserLike(models.TargetPost, post.ID, user.ID); err != nil {
					return total, err
				}
				post.LikeCount++
				total++
			}
		}
		// plus a handful of anonymous visitors
		anon := r.Intn(4)
		for i := 0; i < anon; i++ {
			if err := f.CreateAnonymousLike(models.TargetPost, post.ID); err != nil {
				return total, err
			}
			post.LikeCount++
			total++
		}
		if err := f.SetLikeCount(models.TargetPost, post.ID, post.LikeCount); err != nil {
			return total, err
		}
	}

	for _, comment := range comments {
		if r.Float32() < 0.3 {
			user := users[r.Intn(len(users))]
			if err := f.CreateUserLike(models.TargetComment, comment.ID, user.ID); err != nil {
				return total, err
			}
			comment.LikeCount++
			total++
			if err := f.SetLikeCount(models.TargetComment, comment.ID, comment.LikeCount); err != nil {
				return total, err
			}
		}
	}

	return total, nil
}
