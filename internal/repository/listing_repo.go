package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/kevinpauljacob/cal/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ListingCollection = "listings"

type ListingRepo interface {
	CreateListing(ctx context.Context, listing *model.Listing) error
	GetByUsername(ctx context.Context, username string) (*model.Listing, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListActive(ctx context.Context, search string) ([]*model.Listing, error)
	CountActive(ctx context.Context) (int64, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	UpdateFollowers(ctx context.Context, username string, followers int64, at time.Time) error
	UpdateLaunchDate(ctx context.Context, username, createdBy string, launchDate time.Time, active bool) (*model.Listing, error)
}

type listingRepoImpl struct {
	col *mongo.Collection
}

func NewListingRepo(db *mongo.Database) ListingRepo {
	return &listingRepoImpl{
		col: db.Collection(ListingCollection),
	}
}

// CreateListing 新建项目，账号重复时返回 mongo.IsDuplicateKeyError 可识别的错误
func (r *listingRepoImpl) CreateListing(ctx context.Context, listing *model.Listing) error {
	res, err := r.col.InsertOne(ctx, listing)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		listing.ID = id
	}
	return nil
}

// GetByUsername 不存在时返回 nil, nil
func (r *listingRepoImpl) GetByUsername(ctx context.Context, username string) (*model.Listing, error) {
	var listing model.Listing
	err := r.col.FindOne(ctx, bson.M{"twitterUsername": username}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepoImpl) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"twitterUsername": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListActive 获取全部上线中的项目，search 非空时按名称或账号做不区分大小写的子串匹配
func (r *listingRepoImpl) ListActive(ctx context.Context, search string) ([]*model.Listing, error) {
	filter := bson.M{"active": true}
	if search != "" {
		pattern := caseInsensitiveContains(search)
		filter["$or"] = bson.A{
			bson.M{"screenName": pattern},
			bson.M{"twitterUsername": pattern},
		}
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*model.Listing, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listingRepoImpl) CountActive(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"active": true})
}

// DeactivateExpired 将上线日期已过的项目批量置为非活跃
func (r *listingRepoImpl) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{"active": true, "launchDate": bson.M{"$lte": now}}
	update := bson.M{"$set": bson.M{"active": false}}
	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// UpdateFollowers 单文档原子更新粉丝数
func (r *listingRepoImpl) UpdateFollowers(ctx context.Context, username string, followers int64, at time.Time) error {
	filter := bson.M{"twitterUsername": username}
	update := bson.M{"$set": bson.M{"followers": followers, "lastUpdated": at}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateLaunchDate 仅允许提交者修改，未命中返回 nil, nil
func (r *listingRepoImpl) UpdateLaunchDate(ctx context.Context, username, createdBy string, launchDate time.Time, active bool) (*model.Listing, error) {
	filter := bson.M{"twitterUsername": username, "createdBy": createdBy}
	update := bson.M{"$set": bson.M{
		"launchDate":  launchDate,
		"active":      active,
		"lastUpdated": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var listing model.Listing
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func caseInsensitiveContains(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}
