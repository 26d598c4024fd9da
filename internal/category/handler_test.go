package category_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/category"
	categoryPostgres "github.com/frahmantamala/budget-manager/internal/category/postgres"
	"github.com/frahmantamala/budget-manager/internal/core/datamodel"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
	"github.com/frahmantamala/budget-manager/internal/transport"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		router http.Handler
		alice  *internal.Caller
		bob    *internal.Caller
		food   *categoryDatamodel.Category
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		DeferCleanup(sqlDB.Close)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		for _, name := range []string{"alice", "bob"} {
			Expect(db.Create(&accountDatamodel.Account{
				Username: name, Email: name + "@example.com", PasswordHash: "x", Role: internal.RoleUser, IsActive: true,
			}).Error).To(Succeed())
		}
		alice = &internal.Caller{ID: 1, Username: "alice", Role: internal.RoleUser, IsActive: true}
		bob = &internal.Caller{ID: 2, Username: "bob", Role: internal.RoleUser, IsActive: true}

		aliceID := alice.ID
		food = &categoryDatamodel.Category{Name: "Food", OwnerID: &aliceID}
		Expect(db.Create(food).Error).To(Succeed())

		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, slogger)
		handler := category.NewHandler(transport.NewBaseHandler(slogger), service)

		r := chi.NewRouter()
		r.Get("/categories", handler.GetCategories)
		r.Post("/categories", handler.CreateCategory)
		r.Get("/categories/{id}", handler.GetCategory)
		r.Put("/categories/{id}", handler.UpdateCategory)
		r.Delete("/categories/{id}", handler.DeleteCategory)
		router = r
	})

	do := func(method, target, body string, caller *internal.Caller) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		if caller != nil {
			req = req.WithContext(internal.ContextWithCaller(req.Context(), caller))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("lists the caller's categories", func() {
		w := do(http.MethodGet, "/categories", "", alice)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Count).To(Equal(1))
		Expect(response.Categories[0].Name).To(Equal("Food"))
	})

	It("returns an empty list for users without categories", func() {
		w := do(http.MethodGet, "/categories", "", bob)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"count":0,"results":[]}`))
	})

	It("rejects anonymous requests with 401", func() {
		w := do(http.MethodGet, "/categories", "", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeAuthRequired)))
	})

	It("creates a category owned by the caller regardless of the payload", func() {
		w := do(http.MethodPost, "/categories", `{"name":"Rent","user":1}`, bob)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.Name).To(Equal("Rent"))
		Expect(*created.User).To(Equal(bob.ID))
	})

	It("returns field errors for an invalid name", func() {
		w := do(http.MethodPost, "/categories", `{"name":""}`, alice)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"name"`))
	})

	It("rejects malformed JSON", func() {
		w := do(http.MethodPost, "/categories", `{"name":`, alice)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("hides other users' categories behind 404", func() {
		target := "/categories/" + itoa(food.ID)
		Expect(do(http.MethodGet, target, "", bob).Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPut, target, `{"name":"Stolen"}`, bob).Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, target, "", bob).Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodGet, target, "", alice).Code).To(Equal(http.StatusOK))
	})

	It("updates and deletes owned categories", func() {
		target := "/categories/" + itoa(food.ID)
		w := do(http.MethodPut, target, `{"name":"Groceries"}`, alice)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Groceries"))

		Expect(do(http.MethodDelete, target, "", alice).Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, target, "", alice).Code).To(Equal(http.StatusNotFound))
	})

	It("rejects non-numeric ids", func() {
		Expect(do(http.MethodGet, "/categories/abc", "", alice).Code).To(Equal(http.StatusBadRequest))
	})
})
