package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/datamodel"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/transaction"
	"github.com/frahmantamala/budget-manager/internal/transaction"
	transactionPostgres "github.com/frahmantamala/budget-manager/internal/transaction/postgres"
)

func TestTransactionPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transaction Postgres Suite")
}

var _ = Describe("Transaction Repository", func() {
	var (
		db         *gorm.DB
		repo       transaction.RepositoryAPI
		ctx        context.Context
		alice, bob *accountDatamodel.Account
		food       *categoryDatamodel.Category
		global     *categoryDatamodel.Category
		bobs       *categoryDatamodel.Category
	)

	day := func(d string) time.Time {
		t, err := time.Parse("2006-01-02", d)
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		DeferCleanup(sqlDB.Close)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		alice = &accountDatamodel.Account{Username: "alice", Email: "a@example.com", PasswordHash: "x", Role: internal.RoleUser, IsActive: true}
		bob = &accountDatamodel.Account{Username: "bob", Email: "b@example.com", PasswordHash: "x", Role: internal.RoleUser, IsActive: true}
		Expect(db.Create(alice).Error).To(Succeed())
		Expect(db.Create(bob).Error).To(Succeed())

		food = &categoryDatamodel.Category{Name: "Food", OwnerID: &alice.ID}
		bobs = &categoryDatamodel.Category{Name: "Food", OwnerID: &bob.ID}
		global = &categoryDatamodel.Category{Name: "Legacy"}
		Expect(db.Create(food).Error).To(Succeed())
		Expect(db.Create(bobs).Error).To(Succeed())
		Expect(db.Create(global).Error).To(Succeed())

		repo = transactionPostgres.NewTransactionRepository(db)
		ctx = context.Background()
	})

	newRow := func(owner int64, amount, date string, categoryID *int64) *transactionDatamodel.Transaction {
		return &transactionDatamodel.Transaction{
			Amount:      decimal.RequireFromString(amount),
			Description: "row",
			Date:        day(date),
			CategoryID:  categoryID,
			UserID:      owner,
		}
	}

	It("creates and reloads with owner and category", func() {
		row := newRow(alice.ID, "123.45", "2024-05-01", &food.ID)
		Expect(repo.Create(ctx, row)).To(Succeed())

		loaded, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Owner).NotTo(BeNil())
		Expect(loaded.Owner.Username).To(Equal("alice"))
		Expect(loaded.Category).NotTo(BeNil())
		Expect(loaded.Category.Name).To(Equal("Food"))
		Expect(loaded.Amount.StringFixed(2)).To(Equal("123.45"))
		Expect(loaded.Date.Format("2006-01-02")).To(Equal("2024-05-01"))
	})

	It("lists one owner's rows newest first with a total count", func() {
		Expect(repo.Create(ctx, newRow(alice.ID, "1", "2024-01-01", nil))).To(Succeed())
		Expect(repo.Create(ctx, newRow(alice.ID, "2", "2024-03-01", &food.ID))).To(Succeed())
		Expect(repo.Create(ctx, newRow(alice.ID, "3", "2024-03-01", nil))).To(Succeed())
		Expect(repo.Create(ctx, newRow(bob.ID, "4", "2024-06-01", nil))).To(Succeed())

		rows, count, err := repo.List(ctx, transaction.ListFilter{OwnerID: alice.ID, Limit: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(3)))
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Amount.String()).To(Equal("3"))
		Expect(rows[1].Amount.String()).To(Equal("2"))

		rows, count, err = repo.List(ctx, transaction.ListFilter{OwnerID: alice.ID, CategoryID: &food.ID, Limit: 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))
		Expect(rows).To(HaveLen(1))
	})

	It("updates editable fields", func() {
		row := newRow(alice.ID, "1", "2024-01-01", &food.ID)
		Expect(repo.Create(ctx, row)).To(Succeed())

		row.Amount = decimal.RequireFromString("9.99")
		row.CategoryID = nil
		Expect(repo.Update(ctx, row)).To(Succeed())

		loaded, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Amount.StringFixed(2)).To(Equal("9.99"))
		Expect(loaded.CategoryID).To(BeNil())
	})

	It("checks category visibility", func() {
		visible, err := repo.CategoryVisible(ctx, food.ID, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(visible).To(BeTrue())

		visible, _ = repo.CategoryVisible(ctx, global.ID, alice.ID)
		Expect(visible).To(BeTrue())

		visible, _ = repo.CategoryVisible(ctx, bobs.ID, alice.ID)
		Expect(visible).To(BeFalse())

		visible, _ = repo.CategoryVisible(ctx, 9999, alice.ID)
		Expect(visible).To(BeFalse())
	})

	It("cascades only the deleted owner's rows", func() {
		Expect(repo.Create(ctx, newRow(alice.ID, "1", "2024-01-01", nil))).To(Succeed())
		Expect(repo.Create(ctx, newRow(bob.ID, "2", "2024-01-01", nil))).To(Succeed())

		Expect(db.Delete(&accountDatamodel.Account{}, alice.ID).Error).To(Succeed())

		_, aliceCount, err := repo.List(ctx, transaction.ListFilter{OwnerID: alice.ID, Limit: 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(aliceCount).To(BeZero())

		_, bobCount, err := repo.List(ctx, transaction.ListFilter{OwnerID: bob.ID, Limit: 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(bobCount).To(Equal(int64(1)))
	})

	It("returns the not-found sentinel", func() {
		_, err := repo.GetByID(ctx, 404)
		Expect(err).To(MatchError(internal.ErrTransactionNotFound))
		Expect(repo.Delete(ctx, 404)).To(MatchError(internal.ErrTransactionNotFound))
	})
})
