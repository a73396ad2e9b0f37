package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/database"
	"salescrm/internal/middleware"
	"salescrm/internal/modules/activity"
	"salescrm/internal/modules/auth"
	"salescrm/internal/modules/company"
	"salescrm/internal/modules/contact"
	"salescrm/internal/modules/dashboard"
	"salescrm/internal/modules/deal"
	"salescrm/internal/modules/pipeline"
	"salescrm/internal/modules/whatsapp"
	jwtsvc "salescrm/internal/pkg/jwt"
	"salescrm/internal/repository"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A named in-memory database with a shared cache: every pooled
	// connection sees the same schema, and each test gets its own.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	jwtService := jwtsvc.New("e2e-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	pipelineRepo := repository.NewPipelineRepository(db)
	dealRepo := repository.NewDealRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	whatsappRepo := repository.NewWhatsAppRepository(db)

	waHub := whatsapp.NewHub()

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	contactHandler := contact.NewHandler(contact.NewService(contactRepo, companyRepo))
	companyHandler := company.NewHandler(company.NewService(companyRepo))
	pipelineHandler := pipeline.NewHandler(pipeline.NewService(pipelineRepo))
	dealHandler := deal.NewHandler(deal.NewService(dealRepo, pipelineRepo, activityRepo, nil))
	activityHandler := activity.NewHandler(activity.NewService(activityRepo))
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(contactRepo, companyRepo, dealRepo, pipelineRepo, activityRepo))
	whatsappHandler := whatsapp.NewHandler(whatsapp.NewService(whatsappRepo, contactRepo, waHub))

	r := gin.New()
	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	authHandler.RegisterProtectedRoutes(protected)
	contactHandler.RegisterRoutes(protected)
	companyHandler.RegisterRoutes(protected)
	dealHandler.RegisterRoutes(protected)
	activityHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)
	whatsappHandler.RegisterRoutes(protected)

	admin := v1.Group("")
	admin.Use(middleware.Auth(jwtService), middleware.ManagerOrAdmin())
	pipelineHandler.RegisterRoutes(protected, admin)

	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

func registerAdmin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "admin@example.com",
		"password": "password123",
		"name":     "Admin",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createBoard(t *testing.T, r *gin.Engine, token string, titles ...string) (int64, []int64) {
	t.Helper()

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/pipelines", token, gin.H{"name": "Sales"})
	require.Equal(t, http.StatusCreated, code)

	var created struct {
		Pipeline struct {
			ID int64 `json:"id"`
		} `json:"pipeline"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	pipelineID := created.Pipeline.ID

	stageIDs := make([]int64, 0, len(titles))
	for i, title := range titles {
		code, env := doJSON(t, r, http.MethodPost, "/api/v1/pipeline-stages", token, gin.H{
			"pipeline_id": pipelineID,
			"title":       title,
			"is_default":  i == 0,
		})
		require.Equal(t, http.StatusCreated, code)

		var stageResp struct {
			Stage struct {
				ID int64 `json:"id"`
			} `json:"stage"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &stageResp))
		stageIDs = append(stageIDs, stageResp.Stage.ID)
	}
	return pipelineID, stageIDs
}

func TestStageLimitEnforced(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)

	titles := make([]string, 12)
	for i := range titles {
		titles[i] = fmt.Sprintf("Stage %d", i+1)
	}
	pipelineID, _ := createBoard(t, r, token, titles...)

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/pipeline-stages", token, gin.H{
		"pipeline_id": pipelineID,
		"title":       "Thirteenth",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STAGE_LIMIT", env.Error.Code)
}

func TestMoveDealAcrossBoard(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)
	pipelineID, _ := createBoard(t, r, token, "Prospecting", "Proposal", "Won")

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/deals", token, gin.H{
		"title":       "Big roof",
		"value":       1200.50,
		"pipeline_id": pipelineID,
	})
	require.Equal(t, http.StatusCreated, code)

	var dealResp struct {
		Deal struct {
			ID    int64  `json:"id"`
			Stage string `json:"stage"`
		} `json:"deal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dealResp))
	assert.Equal(t, "Prospecting", dealResp.Deal.Stage)

	code, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/deals/%d/move", dealResp.Deal.ID), token, gin.H{
		"stage": "Proposal",
	})
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/deals/by-stage?pipeline_id=%d", pipelineID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var board struct {
		Stages []struct {
			Title string `json:"title"`
			Count int    `json:"count"`
			Deals []struct {
				ID int64 `json:"id"`
			} `json:"deals"`
			TotalValue float64 `json:"total_value"`
		} `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board.Stages, 3)

	assert.Equal(t, 0, board.Stages[0].Count)
	assert.Equal(t, 1, board.Stages[1].Count)
	assert.Equal(t, dealResp.Deal.ID, board.Stages[1].Deals[0].ID)
	assert.InDelta(t, 1200.50, board.Stages[1].TotalValue, 0.001)

	// The move is journaled in the activity feed.
	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/activities?deal_id=%d&type=stage_changed", dealResp.Deal.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var feed struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.Equal(t, int64(1), feed.Total)
}

func TestOrphanedDealLeavesBoard(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)
	pipelineID, _ := createBoard(t, r, token, "Prospecting", "Won")

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/deals", token, gin.H{
		"title":       "Stray",
		"value":       500,
		"pipeline_id": pipelineID,
	})
	require.Equal(t, http.StatusCreated, code)

	var dealResp struct {
		Deal struct {
			ID int64 `json:"id"`
		} `json:"deal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dealResp))

	code, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/deals/%d/move", dealResp.Deal.ID), token, gin.H{
		"stage": "No Such Column",
	})
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/deals/by-stage?pipeline_id=%d", pipelineID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var board struct {
		Stages []struct {
			Count int `json:"count"`
		} `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	for _, s := range board.Stages {
		assert.Zero(t, s.Count)
	}

	// The deal itself still exists with its written label.
	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/deals/%d", dealResp.Deal.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var got struct {
		Deal struct {
			Stage string `json:"stage"`
		} `json:"deal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "No Such Column", got.Deal.Stage)
}

func TestPipelineDeleteCascadesToStages(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)
	pipelineID, _ := createBoard(t, r, token, "Prospecting", "Won")

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/deals", token, gin.H{
		"title":       "Survivor",
		"value":       750,
		"pipeline_id": pipelineID,
	})
	require.Equal(t, http.StatusCreated, code)

	var dealResp struct {
		Deal struct {
			ID int64 `json:"id"`
		} `json:"deal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dealResp))

	code, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/pipelines/%d", pipelineID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/pipelines/%d", pipelineID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	// The stages went with the pipeline.
	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/pipeline-stages?pipeline_id=%d", pipelineID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	// The deal survives with its label and pipeline reference dangling.
	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/deals/%d", dealResp.Deal.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var got struct {
		Deal struct {
			Stage      string `json:"stage"`
			PipelineID int64  `json:"pipeline_id"`
		} `json:"deal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Prospecting", got.Deal.Stage)
	assert.Equal(t, pipelineID, got.Deal.PipelineID)
}

func TestReorderStagesFullList(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)
	_, stageIDs := createBoard(t, r, token, "A", "B", "C")

	code, env := doJSON(t, r, http.MethodPut, "/api/v1/pipeline-stages/positions", token, gin.H{
		"stages": []gin.H{
			{"id": stageIDs[2], "position": 0},
			{"id": stageIDs[0], "position": 1},
			{"id": stageIDs[1], "position": 2},
		},
	})
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Stages []struct {
			ID       int64 `json:"id"`
			Position int   `json:"position"`
		} `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Len(t, resp.Stages, 3)
	assert.Equal(t, stageIDs[2], resp.Stages[0].ID)
	assert.Equal(t, stageIDs[0], resp.Stages[1].ID)
	assert.Equal(t, stageIDs[1], resp.Stages[2].ID)

	// Partial lists are rejected.
	code, env = doJSON(t, r, http.MethodPut, "/api/v1/pipeline-stages/positions", token, gin.H{
		"stages": []gin.H{
			{"id": stageIDs[0], "position": 0},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STAGE_SET_MISMATCH", env.Error.Code)
}

func TestPipelineAdminRequiresRole(t *testing.T) {
	r := newTestServer(t)
	registerAdmin(t, r)

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "agent@example.com",
		"password": "password123",
		"name":     "Agent",
	})
	require.Equal(t, http.StatusCreated, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	code, env = doJSON(t, r, http.MethodPost, "/api/v1/pipelines", data.Token, gin.H{"name": "Shadow"})
	assert.Equal(t, http.StatusForbidden, code)

	// Reads stay open to agents.
	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/pipelines", data.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestWhatsAppSessionFlow(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/whatsapp/sessions", token, nil)
	require.Equal(t, http.StatusCreated, code)

	var created struct {
		Session struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
			QRCode string `json:"qr_code"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "waiting_qr", created.Session.Status)
	assert.NotEmpty(t, created.Session.QRCode)

	// Skipping connecting is rejected.
	code, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/whatsapp/sessions/%d/status", created.Session.ID), token, gin.H{
		"status": "connected",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	for _, status := range []string{"connecting", "connected"} {
		code, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/whatsapp/sessions/%d/status", created.Session.ID), token, gin.H{
			"status":       status,
			"phone_number": "+1 555 0100",
		})
		require.Equal(t, http.StatusOK, code)
	}

	// With a connected session an outbound message can be logged.
	code, env = doJSON(t, r, http.MethodPost, "/api/v1/whatsapp/messages", token, gin.H{
		"contact_phone": "+1 555 0101",
		"body":          "hello",
	})
	require.Equal(t, http.StatusCreated, code)

	var msg struct {
		Message struct {
			Direction string `json:"direction"`
		} `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "outbound", msg.Message.Direction)
}

func TestContactCompanyLink(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)

	code, env := doJSON(t, r, http.MethodPost, "/api/v1/companies", token, gin.H{
		"name":     "Acme Coffee",
		"industry": "Hospitality",
	})
	require.Equal(t, http.StatusCreated, code)

	var companyResp struct {
		Company struct {
			ID int64 `json:"id"`
		} `json:"company"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &companyResp))

	code, env = doJSON(t, r, http.MethodPost, "/api/v1/contacts", token, gin.H{
		"name":       "Jane Roaster",
		"email":      "jane@acme.example",
		"company_id": companyResp.Company.ID,
	})
	require.Equal(t, http.StatusCreated, code)

	var contactResp struct {
		Contact struct {
			ID int64 `json:"id"`
		} `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &contactResp))

	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/contacts/%d", contactResp.Contact.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var got struct {
		Contact struct {
			Company *struct {
				Name string `json:"name"`
			} `json:"company"`
		} `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.NotNil(t, got.Contact.Company)
	assert.Equal(t, "Acme Coffee", got.Contact.Company.Name)

	// Unknown company references are rejected.
	code, env = doJSON(t, r, http.MethodPost, "/api/v1/contacts", token, gin.H{
		"name":       "Ghost",
		"company_id": 9999,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "COMPANY_NOT_FOUND", env.Error.Code)
}

func TestDashboardMetrics(t *testing.T) {
	r := newTestServer(t)
	token := registerAdmin(t, r)
	pipelineID, _ := createBoard(t, r, token, "Prospecting", "Won")

	for _, d := range []gin.H{
		{"title": "Open one", "value": 100, "pipeline_id": pipelineID},
		{"title": "Won one", "value": 400, "pipeline_id": pipelineID, "stage": "Won"},
	} {
		code, _ := doJSON(t, r, http.MethodPost, "/api/v1/deals", token, d)
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := doJSON(t, r, http.MethodGet, "/api/v1/dashboard/metrics", token, nil)
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Metrics struct {
			TotalDeals        int64   `json:"total_deals"`
			OpenPipelineValue float64 `json:"open_pipeline_value"`
			WonValueThisMonth float64 `json:"won_value_this_month"`
			DealsPerStage     []struct {
				Stage string `json:"stage"`
				Count int    `json:"count"`
			} `json:"deals_per_stage"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))

	assert.Equal(t, int64(2), resp.Metrics.TotalDeals)
	assert.InDelta(t, 100, resp.Metrics.OpenPipelineValue, 0.001)
	assert.InDelta(t, 400, resp.Metrics.WonValueThisMonth, 0.001)
	require.Len(t, resp.Metrics.DealsPerStage, 2)
	assert.Equal(t, 1, resp.Metrics.DealsPerStage[0].Count)
	assert.Equal(t, 1, resp.Metrics.DealsPerStage[1].Count)
}
