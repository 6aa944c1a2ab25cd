package submissions

import (
	"context"
	"formbridge-service/internal/app/contracts"
	"formbridge-service/internal/app/models"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SubmissionMongoRepository struct {
	Collection *mongo.Collection
}

func NewSubmissionMongoRepository(db *mongo.Client, dbName string) contracts.SubmissionRepository {
	return &SubmissionMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionSubmissions),
	}
}

func (repo *SubmissionMongoRepository) InsertSubmission(ctx context.Context, submission *models.Submission) error {
	_, err := repo.Collection.InsertOne(ctx, submission)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *SubmissionMongoRepository) FindSubmissionByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	var submission models.Submission
	err := repo.Collection.FindOne(ctx, bson.M{"submission_id": submissionID}).Decode(&submission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &submission, nil
}

func (repo *SubmissionMongoRepository) UpdateSubmission(ctx context.Context, submission *models.Submission) error {
	submission.UpdatedAt = time.Now().UTC()
	_, err := repo.Collection.UpdateOne(
		ctx,
		bson.M{"submission_id": submission.SubmissionID},
		bson.M{"$set": submission},
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
