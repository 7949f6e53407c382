// Package mongo provides a MongoDB-backed implementation of the
// storage.Storage interface. Friends are stored one document per record;
// the document's ObjectID, in hex, is the friend's public id.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aanand-mishra/friends-api/internal/storage"
	"github.com/aanand-mishra/friends-api/internal/types"
)

// document is the on-disk shape of a friend.
type document struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Age       int                `bson:"age"`
}

func (d document) friend() types.Friend {
	return types.Friend{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Age:       d.Age,
	}
}

// Mongo is the concrete implementation of storage.Storage.
// *mongo.Client holds its own connection pool and is safe for concurrent use.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to uri and verifies the deployment is reachable before
// returning, so a bad connection string fails at start-up rather than on
// the first request.
func New(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.New: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo.New: ping: %w", err)
	}

	return NewWithCollection(client.Database(database).Collection(collection)), nil
}

// NewWithCollection wraps an existing collection handle.
func NewWithCollection(coll *mongo.Collection) *Mongo {
	return &Mongo{client: coll.Database().Client(), coll: coll}
}

// byID builds the _id filter. An id that is not a valid ObjectID is a cast
// failure, not a miss.
func byID(id string) (bson.D, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return bson.D{{Key: "_id", Value: oid}}, nil
}

// decodeOne turns a single-document result into a friend, mapping
// "no document" onto storage.ErrNotFound.
func decodeOne(res *mongo.SingleResult, op string) (types.Friend, error) {
	var doc document
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Friend{}, storage.ErrNotFound
		}
		return types.Friend{}, fmt.Errorf("%s: decode: %w", op, err)
	}
	return doc.friend(), nil
}

func (m *Mongo) CreateFriend(ctx context.Context, friend types.Friend) (types.Friend, error) {
	doc := document{
		ID:        primitive.NewObjectID(),
		FirstName: friend.FirstName,
		LastName:  friend.LastName,
		Age:       friend.Age,
	}

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return types.Friend{}, fmt.Errorf("CreateFriend: insert: %w", err)
	}

	return doc.friend(), nil
}

// GetFriends returns every document ordered by _id, which for ObjectIDs is
// creation order.
func (m *Mongo) GetFriends(ctx context.Context) ([]types.Friend, error) {
	cursor, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("GetFriends: find: %w", err)
	}

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("GetFriends: decode: %w", err)
	}

	friends := make([]types.Friend, 0, len(docs))
	for _, doc := range docs {
		friends = append(friends, doc.friend())
	}
	return friends, nil
}

func (m *Mongo) GetFriendByID(ctx context.Context, id string) (types.Friend, error) {
	filter, err := byID(id)
	if err != nil {
		return types.Friend{}, err
	}
	return decodeOne(m.coll.FindOne(ctx, filter), "GetFriendByID")
}

// UpdateFriendByID sets the three fields and returns the post-update
// document in a single round trip.
func (m *Mongo) UpdateFriendByID(ctx context.Context, id string, friend types.Friend) (types.Friend, error) {
	filter, err := byID(id)
	if err != nil {
		return types.Friend{}, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "firstName", Value: friend.FirstName},
		{Key: "lastName", Value: friend.LastName},
		{Key: "age", Value: friend.Age},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	return decodeOne(m.coll.FindOneAndUpdate(ctx, filter, update, opts), "UpdateFriendByID")
}

func (m *Mongo) DeleteFriendByID(ctx context.Context, id string) (types.Friend, error) {
	filter, err := byID(id)
	if err != nil {
		return types.Friend{}, err
	}
	return decodeOne(m.coll.FindOneAndDelete(ctx, filter), "DeleteFriendByID")
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
