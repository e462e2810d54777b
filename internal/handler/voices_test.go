package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"AudioFolio/internal/models"

	"github.com/stretchr/testify/require"
)

func TestListVoicesStockCatalog(t *testing.T) {
	fx := newFixture(t, &fakeTTS{audioSize: 16000})

	req := httptest.NewRequest(http.MethodGet, "/api/voices", nil)
	w, env := fx.do(t, req, true)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Stock []struct {
			Key  string `json:"key"`
			Name string `json:"name"`
		} `json:"stock"`
		Clones []models.VoiceClone `json:"clones"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Stock)
	require.Empty(t, data.Clones)

	keys := make(map[string]bool)
	for _, v := range data.Stock {
		keys[v.Key] = true
	}
	require.True(t, keys["rachel"])
}

func cloneForm(t *testing.T, name string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))
	fw, err := mw.CreateFormFile("sample", "sample.mp3")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0x7f}, 512))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestVoiceCloneLifecycle(t *testing.T) {
	fx := newFixture(t, &fakeTTS{audioSize: 16000})

	body, contentType := cloneForm(t, "narrator-sample")
	req := httptest.NewRequest(http.MethodPost, "/api/voices/clones", body)
	req.Header.Set("Content-Type", contentType)
	w, env := fx.do(t, req, true)
	require.Equal(t, http.StatusAccepted, w.Code)

	var accepted struct {
		CloneID string `json:"cloneId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &accepted))
	require.NotEmpty(t, accepted.CloneID)

	// the clone runs in the background; poll until it leaves pending
	var clone models.VoiceClone
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		sreq := httptest.NewRequest(http.MethodGet, "/api/voices/clones/"+accepted.CloneID, nil)
		sw, senv := fx.do(t, sreq, true)
		require.Equal(t, http.StatusOK, sw.Code)
		require.NoError(t, json.Unmarshal(senv.Data, &clone))
		if clone.Status == models.CloneReady || clone.Status == models.CloneFailed {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, models.CloneReady, clone.Status)
	require.Equal(t, "cloned-narrator-sample", clone.EngineVoiceID)

	// a ready clone is usable as a conversion voice
	jobID, _, cw := startConversion(t, fx, "book.txt", twoChapterDoc, accepted.CloneID)
	require.Equal(t, http.StatusAccepted, cw.Code)
	require.NotEmpty(t, jobID)
}

func TestVoiceCloneMissingSample(t *testing.T) {
	fx := newFixture(t, &fakeTTS{audioSize: 16000})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "no-sample"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/voices/clones", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, _ := fx.do(t, req, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversionWithPendingClone(t *testing.T) {
	fx := newFixture(t, &fakeTTS{audioSize: 16000})

	clone := models.VoiceClone{
		ID:     "clone-pending",
		UserID: 1,
		Name:   "Half Done",
		Status: models.ClonePending,
	}
	require.NoError(t, fx.db.Create(&clone).Error)

	_, _, w := startConversion(t, fx, "book.txt", twoChapterDoc, "clone-pending")
	require.Equal(t, http.StatusConflict, w.Code)
}
