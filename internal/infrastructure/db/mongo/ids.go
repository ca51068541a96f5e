package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// caseInsensitive matches the collation of the unique email indexes, so
// lookups and uniqueness agree on what counts as the same address.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// objectID parses a hex id. Callers treat a malformed id as not found.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

// duplicateOn reports whether err is a unique-index violation on index.
func duplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

// searchFilter is an OR of case-insensitive substring matches on fields.
func searchFilter(term string, fields ...string) bson.A {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(term)), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return or
}
