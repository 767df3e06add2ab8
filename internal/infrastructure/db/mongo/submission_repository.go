package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

const collectionSubmissions = "textsubmissions"

type SubmissionRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{
		col: db.Collection(collectionSubmissions),
		now: time.Now,
	}
}

type mongoSubmission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// mongoSubmissionView is one row of the owner join. Inlined fields must be
// exported for the bson codec to decode them.
type mongoSubmissionView struct {
	Submission mongoSubmission `bson:",inline"`
	Owner      *struct {
		ID    primitive.ObjectID `bson:"_id"`
		Email string             `bson:"email"`
	} `bson:"owner,omitempty"`
}

func (ms mongoSubmission) toDomain() domain.TextSubmission {
	return domain.TextSubmission{
		ID:        ms.ID.Hex(),
		UserID:    ms.UserID.Hex(),
		Text:      ms.Text,
		CreatedAt: ms.CreatedAt.UTC(),
	}
}

// Create inserts s, stamping its ID and CreatedAt. The timestamp is truncated to
// the millisecond precision BSON dates are stored with.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.TextSubmission) error {
	uid, err := objectID(s.UserID)
	if err != nil {
		return fmt.Errorf("submission owner: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSubmission{
		ID:        primitive.NewObjectID(),
		UserID:    uid,
		Text:      s.Text,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	s.ID = doc.ID.Hex()
	s.CreatedAt = doc.CreatedAt
	return nil
}

// ListWithOwners returns every submission newest-first with the owner's email
// resolved. Submissions whose owner was deleted are kept with no owner.
func (r *SubmissionRepository) ListWithOwners(ctx context.Context) ([]*domain.SubmissionView, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "userId", Value: 1},
			{Key: "text", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "owner._id", Value: 1},
			{Key: "owner.email", Value: 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoSubmissionView
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	out := make([]*domain.SubmissionView, 0, len(docs))
	for _, d := range docs {
		v := &domain.SubmissionView{TextSubmission: d.Submission.toDomain()}
		if d.Owner != nil {
			v.User = &domain.SubmissionOwner{ID: d.Owner.ID.Hex(), Email: d.Owner.Email}
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *SubmissionRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.D{})
}

// EnsureIndexes creates the indexes backing the newest-first listing and the
// owner join.
func (r *SubmissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
