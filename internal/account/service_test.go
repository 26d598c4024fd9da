package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
)

func TestAccountService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Account Service Suite")
}

// MockRepository implements account.RepositoryAPI in memory
type MockRepository struct {
	accounts        map[int64]*accountDatamodel.Account
	categories      []*categoryDatamodel.Category
	nextID          int64
	shouldFail      bool
	failCategories  bool
	failError       error
	createCallCount int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		accounts:  make(map[int64]*accountDatamodel.Account),
		nextID:    1,
		failError: errors.New("store unavailable"),
	}
}

func (m *MockRepository) WithTx(ctx context.Context, fn func(tx account.RepositoryAPI) error) error {
	snapshotAccounts := make(map[int64]*accountDatamodel.Account, len(m.accounts))
	for k, v := range m.accounts {
		snapshotAccounts[k] = v
	}
	snapshotCategories := append([]*categoryDatamodel.Category(nil), m.categories...)

	if err := fn(m); err != nil {
		m.accounts = snapshotAccounts
		m.categories = snapshotCategories
		return err
	}
	return nil
}

func (m *MockRepository) Create(ctx context.Context, acc *accountDatamodel.Account) error {
	m.createCallCount++
	if m.shouldFail {
		return m.failError
	}
	acc.ID = m.nextID
	m.nextID++
	copied := *acc
	m.accounts[acc.ID] = &copied
	return nil
}

func (m *MockRepository) CreateCategories(ctx context.Context, categories []*categoryDatamodel.Category) error {
	if m.failCategories {
		return m.failError
	}
	m.categories = append(m.categories, categories...)
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*accountDatamodel.Account, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	acc, ok := m.accounts[id]
	if !ok {
		return nil, internal.ErrAccountNotFound
	}
	copied := *acc
	return &copied, nil
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*accountDatamodel.Account, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, acc := range m.accounts {
		if acc.Username == username {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, internal.ErrAccountNotFound
}

func (m *MockRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, acc := range m.accounts {
		if acc.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) Update(ctx context.Context, acc *accountDatamodel.Account) error {
	if m.shouldFail {
		return m.failError
	}
	if _, ok := m.accounts[acc.ID]; !ok {
		return internal.ErrAccountNotFound
	}
	copied := *acc
	m.accounts[acc.ID] = &copied
	return nil
}

func validDTO(username string) account.CreateAccountDTO {
	return account.CreateAccountDTO{
		Username:  username,
		Email:     username + "@example.com",
		Password1: "s3cretpass",
		Password2: "s3cretpass",
	}
}

func categoryNames(categories []*categoryDatamodel.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

var _ = Describe("Account Service", func() {
	var (
		repo    *MockRepository
		service *account.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		service = account.NewService(repo, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("creates a regular active account and provisions default categories", func() {
			acc, err := service.Create(ctx, validDTO("alice"))
			Expect(err).NotTo(HaveOccurred())
			Expect(acc.ID).To(Equal(int64(1)))
			Expect(acc.Role).To(Equal(internal.RoleUser))
			Expect(acc.IsActive).To(BeTrue())
			Expect(acc.IsAdmin()).To(BeFalse())
			Expect(acc.PasswordHash).NotTo(Equal("s3cretpass"))
			Expect(acc.CheckPassword("s3cretpass")).To(BeTrue())

			Expect(categoryNames(repo.categories)).To(Equal([]string{"Food", "Transport", "Salary"}))
			for _, c := range repo.categories {
				Expect(c.OwnerID).NotTo(BeNil())
				Expect(*c.OwnerID).To(Equal(acc.ID))
			}
		})

		It("honours an explicit role and inactive flag", func() {
			dto := validDTO("boss")
			dto.Role = internal.RoleAdmin
			inactive := false
			dto.IsActive = &inactive

			acc, err := service.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc.IsAdmin()).To(BeTrue())
			Expect(acc.IsActive).To(BeFalse())
		})

		It("rejects a duplicate username as a field error", func() {
			_, err := service.Create(ctx, validDTO("alice"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, validDTO("alice"))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()).To(ConsistOf(HaveField("Field", "username")))
			Expect(repo.categories).To(HaveLen(3))
		})

		It("reports every invalid field and creates nothing", func() {
			_, err := service.Create(ctx, account.CreateAccountDTO{
				Username:  "bad name",
				Email:     "nope",
				Password1: "s3cretpass",
				Password2: "different",
				Role:      "root",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))

			fields := []string{}
			for _, fe := range appErr.FieldErrors() {
				fields = append(fields, fe.Field)
			}
			Expect(fields).To(ConsistOf("username", "email", "role", "password2"))
			Expect(repo.createCallCount).To(BeZero())
		})

		It("rolls back the account when provisioning fails", func() {
			repo.failCategories = true

			_, err := service.Create(ctx, validDTO("alice"))
			Expect(err).To(HaveOccurred())
			Expect(repo.accounts).To(BeEmpty())
			Expect(repo.categories).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		It("changes fields without provisioning again", func() {
			acc, err := service.Create(ctx, validDTO("alice"))
			Expect(err).NotTo(HaveOccurred())

			email := "new@example.com"
			role := internal.RoleAdmin
			updated, err := service.Update(ctx, acc.ID, account.UpdateAccountDTO{Email: &email, Role: &role})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Email).To(Equal(email))
			Expect(updated.IsAdmin()).To(BeTrue())
			Expect(repo.categories).To(HaveLen(3))
		})

		It("returns not found for unknown accounts", func() {
			active := false
			_, err := service.Update(ctx, 42, account.UpdateAccountDTO{IsActive: &active})
			Expect(err).To(MatchError(internal.ErrAccountNotFound))
		})

		It("validates a replacement password", func() {
			acc, _ := service.Create(ctx, validDTO("alice"))
			short := "short"
			_, err := service.Update(ctx, acc.ID, account.UpdateAccountDTO{Password: &short})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()).To(ConsistOf(HaveField("Field", "password")))
		})
	})

	Describe("ChangePassword", func() {
		var caller *internal.Caller

		BeforeEach(func() {
			acc, err := service.Create(ctx, validDTO("alice"))
			Expect(err).NotTo(HaveOccurred())
			caller = acc.ToCaller()
		})

		It("replaces the password when the old one matches", func() {
			err := service.ChangePassword(ctx, caller, account.ChangePasswordDTO{
				OldPassword: "s3cretpass", NewPassword1: "an0therpass", NewPassword2: "an0therpass",
			})
			Expect(err).NotTo(HaveOccurred())

			acc, err := service.GetByID(ctx, caller.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc.CheckPassword("an0therpass")).To(BeTrue())
		})

		It("rejects a wrong old password", func() {
			err := service.ChangePassword(ctx, caller, account.ChangePasswordDTO{
				OldPassword: "wrong-pass", NewPassword1: "an0therpass", NewPassword2: "an0therpass",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()).To(ConsistOf(HaveField("Field", "old_password")))
		})

		It("requires authentication", func() {
			err := service.ChangePassword(ctx, nil, account.ChangePasswordDTO{})
			Expect(err).To(MatchError(internal.ErrAuthenticationRequired))
		})
	})

	It("wraps store failures as internal errors", func() {
		repo.shouldFail = true
		_, err := service.GetByID(ctx, 1)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})
