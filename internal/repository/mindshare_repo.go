package repository

import (
	"context"
	"time"

	"github.com/kevinpauljacob/cal/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MindShareCollection = "mindshares"

type MindShareRepo interface {
	InsertSnapshot(ctx context.Context, snapshot *model.MindShare) error
	FindSince(ctx context.Context, username string, since time.Time) ([]*model.MindShare, error)
	FindSinceByUsernames(ctx context.Context, usernames []string, since time.Time) (map[string][]*model.MindShare, error)
}

type mindShareRepoImpl struct {
	col *mongo.Collection
}

func NewMindShareRepo(db *mongo.Database) MindShareRepo {
	return &mindShareRepoImpl{
		col: db.Collection(MindShareCollection),
	}
}

// InsertSnapshot 追加一条快照
func (r *mindShareRepoImpl) InsertSnapshot(ctx context.Context, snapshot *model.MindShare) error {
	_, err := r.col.InsertOne(ctx, snapshot)
	return err
}

// FindSince 获取账号自 since 起的快照 (按时间倒序)
func (r *mindShareRepoImpl) FindSince(ctx context.Context, username string, since time.Time) ([]*model.MindShare, error) {
	filter := bson.M{
		"twitterUsername": username,
		"date":            bson.M{"$gte": since},
	}
	return r.find(ctx, filter)
}

// FindSinceByUsernames 一次查询多个账号的快照，按账号分组，组内按时间倒序
func (r *mindShareRepoImpl) FindSinceByUsernames(ctx context.Context, usernames []string, since time.Time) (map[string][]*model.MindShare, error) {
	res := make(map[string][]*model.MindShare, len(usernames))
	if len(usernames) == 0 {
		return res, nil
	}

	filter := bson.M{
		"twitterUsername": bson.M{"$in": usernames},
		"date":            bson.M{"$gte": since},
	}
	list, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		res[m.TwitterUsername] = append(res[m.TwitterUsername], m)
	}
	return res, nil
}

func (r *mindShareRepoImpl) find(ctx context.Context, filter bson.M) ([]*model.MindShare, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*model.MindShare, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
