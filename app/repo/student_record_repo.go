package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fiber/dvp/app/model"
)

type StudentRecordRepository interface {
	Upsert(ctx context.Context, record *model.StudentRecord) (*model.StudentRecord, error)
	FindByEnrollmentNo(ctx context.Context, enrlNo string) (*model.StudentRecord, error)
	FindAll(ctx context.Context, page, limit int, search string) ([]model.StudentRecord, int64, error)
}

type StudentRecordRepo struct {
	coll *mongo.Collection
}

func NewStudentRecordRepo(mongoDB *mongo.Database) *StudentRecordRepo {
	return &StudentRecordRepo{coll: mongoDB.Collection("student_records")}
}

func (r *StudentRecordRepo) Upsert(ctx context.Context, record *model.StudentRecord) (*model.StudentRecord, error) {
	now := time.Now()
	record.UpdatedAt = now

	set := bson.M{
		"name":           record.Name,
		"degree":         record.Degree,
		"university":     record.University,
		"graduationYear": record.GraduationYear,
		"contact":        record.Contact,
		"personal":       record.Personal,
		"academic":       record.Academic,
		"subjects":       record.Subjects,
		"documents":      record.Documents,
		"updatedAt":      now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"enrollmentNo": record.EnrollmentNo, "createdAt": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.StudentRecord
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"enrollmentNo": record.EnrollmentNo}, update, opts).Decode(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *StudentRecordRepo) FindByEnrollmentNo(ctx context.Context, enrlNo string) (*model.StudentRecord, error) {
	var record model.StudentRecord
	if err := r.coll.FindOne(ctx, bson.M{"enrollmentNo": enrlNo}).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *StudentRecordRepo) FindAll(ctx context.Context, page, limit int, search string) ([]model.StudentRecord, int64, error) {
	filter := bson.M{}
	if search != "" {
		filter = bson.M{"$or": []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"enrollmentNo": bson.M{"$regex": search, "$options": "i"}},
		}}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "enrollmentNo", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	records := []model.StudentRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
