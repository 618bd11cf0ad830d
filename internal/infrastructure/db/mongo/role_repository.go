package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

const collectionRoles = "roles"

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d roleDoc
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrRoleNotSeeded
		}
		return "", fmt.Errorf("find role: %w", err)
	}

	role, ok := domain.ParseRole(d.Name)
	if !ok {
		return "", fmt.Errorf("unknown role %q in store", d.Name)
	}
	return role, nil
}

// Upsert creates the role if absent. Running the seed twice is a no-op.
func (r *RoleRepository) Upsert(ctx context.Context, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"name": string(role)}
	update := bson.M{"$setOnInsert": roleDoc{Name: string(role), CreatedAt: time.Now().UTC()}}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}
