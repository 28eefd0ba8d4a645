package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"productapi/internal/models"
	"productapi/internal/repositories"
)

func TestMockRepositoryAssignsSequentialIDs(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	first := &models.Product{Name: "Monitor", Price: 300, Availability: true}
	second := &models.Product{Name: "Keyboard", Price: 75, Availability: true}

	assert.NoError(t, repo.Create(first))
	assert.NoError(t, repo.Create(second))
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)

	all, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Monitor", all[0].Name)
}

func TestMockRepositoryCRUD(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	product := &models.Product{Name: "Webcam", Price: 120, Availability: true}
	assert.NoError(t, repo.Create(product))

	fetched, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Webcam", fetched.Name)

	fetched.Price = 99
	assert.NoError(t, repo.Update(fetched))
	updated, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 99.0, updated.Price)

	assert.NoError(t, repo.Delete(product.ID))
	_, err = repo.GetByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	assert.ErrorIs(t, repo.Delete(product.ID), repositories.ErrProductNotFound)
	assert.ErrorIs(t, repo.Update(product), repositories.ErrProductNotFound)
}
