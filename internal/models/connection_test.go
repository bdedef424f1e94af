package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKeyIsSymmetric(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	assert.Equal(t, PairKey(a, b), PairKey(b, a))
}

func TestPairKeyIsSorted(t *testing.T) {
	a, _ := primitive.ObjectIDFromHex("000000000000000000000001")
	b, _ := primitive.ObjectIDFromHex("000000000000000000000002")
	assert.Equal(t, "000000000000000000000001:000000000000000000000002", PairKey(a, b))
	assert.Equal(t, "000000000000000000000001:000000000000000000000002", PairKey(b, a))
}

func TestConnectionOther(t *testing.T) {
	requester := primitive.NewObjectID()
	recipient := primitive.NewObjectID()
	conn := &Connection{RequesterID: requester, RecipientID: recipient}

	assert.Equal(t, recipient, conn.Other(requester))
	assert.Equal(t, requester, conn.Other(recipient))
}
