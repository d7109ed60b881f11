package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"alcove/internal/identity"
	"alcove/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// BuildPost constructs a post struct without persisting it. Useful for
// batching. The created_at timestamp is spread over the past MaxDays so
// the month filter on the feed has something to chew on.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:   gofakeit.Sentence(5),
		Content: gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:  user.ID,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Role:     models.RoleSubscriber,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUserComment persists a comment attributed to a registered user.
func (f *Factory) CreateUserComment(post *models.Post, user *models.User, overrides ...func(*models.Comment)) (*models.Comment, error) {
	uid := user.ID
	comment := &models.Comment{
		Content:    gofakeit.Sentence(8),
		PostID:     post.ID,
		UserID:     &uid,
		AuthorName: user.Username,
	}
	return f.createComment(comment, post, overrides)
}

// CreateGuestComment persists a comment with no account behind it. An
// empty name falls back to the default guest name, same as the API does.
func (f *Factory) CreateGuestComment(post *models.Post, name string, overrides ...func(*models.Comment)) (*models.Comment, error) {
	if name == "" {
		name = models.DefaultGuestName
	}
	comment := &models.Comment{
		Content:    gofakeit.Sentence(8),
		PostID:     post.ID,
		AuthorName: name,
	}
	return f.createComment(comment, post, overrides)
}

func (f *Factory) createComment(comment *models.Comment, post *models.Post, overrides []func(*models.Comment)) (*models.Comment, error) {
	// comments land after their post, never before
	offset := time.Duration(gofakeit.Number(1, 72)) * time.Hour
	comment.CreatedAt = post.CreatedAt.Add(offset)
	if comment.CreatedAt.After(time.Now()) {
		comment.CreatedAt = time.Now()
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateUserLike writes one ledger row for a registered user.
func (f *Factory) CreateUserLike(targetKind string, targetID, userID uint) error {
	like := &models.Like{
		TargetKind: targetKind,
		TargetID:   targetID,
		LikerKey:   identity.User(userID).LikerKey(),
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.Create(like).Error
}

// CreateAnonymousLike writes one ledger row keyed by a synthetic browser
// identifier, the way the anonymous like endpoint would.
func (f *Factory) CreateAnonymousLike(targetKind string, targetID uint) error {
	like := &models.Like{
		TargetKind: targetKind,
		TargetID:   targetID,
		LikerKey:   gofakeit.UUID(),
		Anonymous:  true,
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.Create(like).Error
}

// SetLikeCount pins a target's denormalized counter to the given value.
// The seeder calls it once per target after writing its ledger rows.
func (f *Factory) SetLikeCount(targetKind string, targetID uint, count int) error {
	if f.opts.DryRun {
		return nil
	}
	table := "posts"
	if targetKind == models.TargetComment {
		table = "comments"
	}
	return f.db.Table(table).Where("id = ?", targetID).Update("like_count", count).Error
}
