package repository

import (
	"context"
	"fmt"
	"time"

	"opinai/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const surveysCollection = "surveys"

type surveyDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Nome      string             `bson:"nome"`
	Tempo     string             `bson:"tempo"`
	Valor     string             `bson:"valor"`
	Perguntas []storedQuestion   `bson:"perguntas"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// storedQuestion reads both structured questions and legacy documents where
// perguntas was a plain string array.
type storedQuestion struct {
	Texto  string   `bson:"texto"`
	Tipo   string   `bson:"tipo"`
	Opcoes []string `bson:"opcoes,omitempty"`
}

func (q *storedQuestion) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	if text, ok := raw.StringValueOK(); ok {
		*q = storedQuestion{Texto: text, Tipo: model.QuestionTypeText}
		return nil
	}

	type plain storedQuestion
	var p plain
	if err := raw.Unmarshal(&p); err != nil {
		return fmt.Errorf("failed to decode question: %w", err)
	}
	*q = storedQuestion(p)
	return nil
}

func (q storedQuestion) toModel() model.Question {
	return model.Question{Texto: q.Texto, Tipo: q.Tipo, Opcoes: q.Opcoes}.Normalize()
}

type mongoSurveyRepository struct {
	coll *mongo.Collection
}

// NewMongoSurveyRepository creates a SurveyRepository backed by MongoDB
func NewMongoSurveyRepository(db *mongo.Database) SurveyRepository {
	return &mongoSurveyRepository{coll: db.Collection(surveysCollection)}
}

// Create inserts a survey document
func (r *mongoSurveyRepository) Create(ctx context.Context, s *model.Survey) error {
	perguntas := make([]storedQuestion, 0, len(s.Perguntas))
	for _, q := range s.Perguntas {
		perguntas = append(perguntas, storedQuestion{Texto: q.Texto, Tipo: q.Tipo, Opcoes: q.Opcoes})
	}
	doc := surveyDocument{
		Nome:      s.Nome,
		Tempo:     s.Tempo,
		Valor:     s.Valor,
		Perguntas: perguntas,
		CreatedAt: s.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create survey: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

// FindAll returns every survey ordered by ObjectID, i.e. insertion order
func (r *mongoSurveyRepository) FindAll(ctx context.Context) ([]model.Survey, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}

	var docs []surveyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode surveys: %w", err)
	}

	surveys := make([]model.Survey, 0, len(docs))
	for _, d := range docs {
		perguntas := make([]model.Question, 0, len(d.Perguntas))
		for _, q := range d.Perguntas {
			perguntas = append(perguntas, q.toModel())
		}
		surveys = append(surveys, model.Survey{
			ID:        d.ID.Hex(),
			Nome:      d.Nome,
			Tempo:     d.Tempo,
			Valor:     d.Valor,
			Perguntas: perguntas,
			CreatedAt: d.CreatedAt,
		})
	}
	return surveys, nil
}
