package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fiber/dvp/app/model"
)

type AccessRequestRepository interface {
	Create(ctx context.Context, req *model.AccessRequest) (*model.AccessRequest, error)
	FindByID(ctx context.Context, id string) (*model.AccessRequest, error)
	FindByStudent(ctx context.Context, enrlNo string) ([]model.AccessRequest, error)
	FindByEmployer(ctx context.Context, employerID string) ([]model.AccessRequest, error)
	FindByEmployerAndStudent(ctx context.Context, employerID, enrlNo string) ([]model.AccessRequest, error)
	UpdateStatus(ctx context.Context, id string, status model.RequestStatus, approvedFields []string) (*model.AccessRequest, error)
	UpdateApprovedFields(ctx context.Context, id string, fields []string) (*model.AccessRequest, error)
	Delete(ctx context.Context, id string) error
}

type AccessRequestRepo struct {
	coll *mongo.Collection
}

func NewAccessRequestRepo(mongoDB *mongo.Database) *AccessRequestRepo {
	return &AccessRequestRepo{coll: mongoDB.Collection("access_requests")}
}

func (r *AccessRequestRepo) Create(ctx context.Context, req *model.AccessRequest) (*model.AccessRequest, error) {
	now := time.Now()
	req.ID = primitive.NewObjectID()
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *AccessRequestRepo) FindByID(ctx context.Context, id string) (*model.AccessRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var req model.AccessRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AccessRequestRepo) FindByStudent(ctx context.Context, enrlNo string) ([]model.AccessRequest, error) {
	return r.find(ctx, bson.M{"studentEnrlNo": enrlNo})
}

func (r *AccessRequestRepo) FindByEmployer(ctx context.Context, employerID string) ([]model.AccessRequest, error) {
	return r.find(ctx, bson.M{"employerId": employerID})
}

func (r *AccessRequestRepo) FindByEmployerAndStudent(ctx context.Context, employerID, enrlNo string) ([]model.AccessRequest, error) {
	return r.find(ctx, bson.M{"employerId": employerID, "studentEnrlNo": enrlNo})
}

func (r *AccessRequestRepo) find(ctx context.Context, filter bson.M) ([]model.AccessRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []model.AccessRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *AccessRequestRepo) UpdateStatus(ctx context.Context, id string, status model.RequestStatus, approvedFields []string) (*model.AccessRequest, error) {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if approvedFields != nil {
		set["approvedFields"] = approvedFields
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *AccessRequestRepo) UpdateApprovedFields(ctx context.Context, id string, fields []string) (*model.AccessRequest, error) {
	set := bson.M{
		"approvedFields": fields,
		"updatedAt":      time.Now(),
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *AccessRequestRepo) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*model.AccessRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.AccessRequest
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete treats an unknown or malformed id as already deleted.
func (r *AccessRequestRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
