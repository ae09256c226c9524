package services

import (
	"context"
	"fmt"
	"time"

	"github.com/address-verifier/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const countyProvidersCollection = "county_providers"

// CountyStore lưu bảng county provider trong MongoDB.
// Chỉ đọc một lần khi khởi động; seed qua admin endpoint hoặc worker.
type CountyStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewCountyStore kết nối MongoDB và tạo index unique theo key
func NewCountyStore(ctx context.Context, mongoURL, database string, logger *zap.Logger) (*CountyStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("lỗi kết nối MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("không thể ping MongoDB: %w", err)
	}

	collection := client.Database(database).Collection(countyProvidersCollection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Warn("Không thể tạo index cho county_providers", zap.Error(err))
	}

	return &CountyStore{
		client:     client,
		collection: collection,
		logger:     logger,
	}, nil
}

// LoadAll đọc toàn bộ provider, sắp theo key
func (s *CountyStore) LoadAll(ctx context.Context) ([]models.CountyProviderRecord, error) {
	cur, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{bson.E{Key: "key", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("lỗi query county providers: %w", err)
	}
	defer cur.Close(ctx) //nolint:errcheck

	var records []models.CountyProviderRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("lỗi decode county providers: %w", err)
	}
	return records, nil
}

// Upsert ghi đè từng provider theo key, trả về số bản ghi mới và số bản ghi cập nhật
func (s *CountyStore) Upsert(ctx context.Context, records []models.CountyProviderRecord) (inserted, updated int64, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		rec.ID = primitive.NilObjectID
		rec.UpdatedAt = now
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"key": rec.Key}).
			SetReplacement(rec).
			SetUpsert(true))
	}

	res, err := s.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, 0, fmt.Errorf("lỗi upsert county providers: %w", err)
	}

	s.logger.Info("Đã seed county providers",
		zap.Int64("inserted", res.UpsertedCount),
		zap.Int64("updated", res.ModifiedCount))
	return res.UpsertedCount, res.ModifiedCount, nil
}

// Ping kiểm tra kết nối (dùng cho /ready)
func (s *CountyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close ngắt kết nối MongoDB
func (s *CountyStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
