package repositories

import (
	"context"
	"errors"
	"testing"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ProductRepository
	productID uuid.UUID
	context   context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewProductRepo(mock)
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) TestCreate_DuplicateSKU() {
	product := &models.Product{ID: suite.productID, SKU: "A-1", Name: "Widget", Status: models.ProductStatusAvailable}

	suite.mock.ExpectExec(`INSERT INTO products`).
		WithArgs(product.ID, product.SKU, product.Name, product.Description, product.Price, product.Cost,
			product.Stock, product.MinStockLevel, product.SupplierID, product.Status).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	err := suite.repo.Create(suite.context, product)
	var validation *common.ValidationError
	require.True(suite.T(), errors.As(err, &validation))
	assert.Equal(suite.T(), "sku", validation.Field)
}

func (suite *ProductRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	product, err := suite.repo.GetByID(suite.context, suite.productID)
	assert.Nil(suite.T(), product)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestDecreaseStockTx_Success() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE products SET stock = stock - \$1`).
		WithArgs(3, suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(7))

	tx, err := suite.mock.Begin(suite.context)
	require.NoError(suite.T(), err)

	stock, err := suite.repo.DecreaseStockTx(suite.context, tx, suite.productID, 3)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, stock)
}

func (suite *ProductRepoTestSuite) TestDecreaseStockTx_Insufficient() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE products SET stock = stock - \$1`).
		WithArgs(50, suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}))
	suite.mock.ExpectQuery(`SELECT sku FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"sku"}).AddRow("A-1"))

	tx, err := suite.mock.Begin(suite.context)
	require.NoError(suite.T(), err)

	_, err = suite.repo.DecreaseStockTx(suite.context, tx, suite.productID, 50)
	var insufficient *common.InsufficientStockError
	require.True(suite.T(), errors.As(err, &insufficient))
	assert.Equal(suite.T(), suite.productID, insufficient.ProductID)
	assert.Equal(suite.T(), "A-1", insufficient.SKU)
	assert.Equal(suite.T(), 50, insufficient.Requested)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
}

func (suite *ProductRepoTestSuite) TestDecreaseStockTx_MissingProduct() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE products SET stock = stock - \$1`).
		WithArgs(1, suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}))
	suite.mock.ExpectQuery(`SELECT sku FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"sku"}))

	tx, err := suite.mock.Begin(suite.context)
	require.NoError(suite.T(), err)

	_, err = suite.repo.DecreaseStockTx(suite.context, tx, suite.productID, 1)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestIncreaseStockTx() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE products SET stock = stock \+ \$1`).
		WithArgs(5, suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(5))

	tx, err := suite.mock.Begin(suite.context)
	require.NoError(suite.T(), err)

	stock, err := suite.repo.IncreaseStockTx(suite.context, tx, suite.productID, 5)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, stock)
}

func (suite *ProductRepoTestSuite) TestIncreaseStockTx_OutOfRange() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`UPDATE products SET stock = stock \+ \$1`).
		WithArgs(1_000_000, suite.productID).
		WillReturnError(&pgconn.PgError{Code: pgNumericOutOfRange, Message: "integer out of range"})

	tx, err := suite.mock.Begin(suite.context)
	require.NoError(suite.T(), err)

	_, err = suite.repo.IncreaseStockTx(suite.context, tx, suite.productID, 1_000_000)
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
}

func (suite *ProductRepoTestSuite) TestDelete_StillReferenced() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := suite.repo.Delete(suite.context, suite.productID)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidState)
}

func (suite *ProductRepoTestSuite) TestAdvancedSearch_EmptyResult() {
	suite.mock.ExpectQuery(`SELECT p\.id, .* FROM products p WHERE \(p\.sku ILIKE \$1 OR p\.name ILIKE \$1\) AND p\.status <> 'discontinued' ORDER BY p\.name ASC, p\.id LIMIT \$2 OFFSET \$3`).
		WithArgs("%bolt%", 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	products, err := suite.repo.AdvancedSearch(suite.context, &models.ProductSearchFilter{
		Query:               "bolt",
		ExcludeDiscontinued: true,
		SortBy:              "name",
		SortOrder:           "asc",
	})
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), products)
	assert.Empty(suite.T(), products)
}
