package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/internal/utils"
)

func TestParseFromAddress(t *testing.T) {
	cases := []struct {
		in   string
		name string
		addr string
	}{
		{`"Shop Core" <no-reply@shopcore.local>`, "Shop Core", "no-reply@shopcore.local"},
		{`Shopcore <no-reply@shopcore.local>`, "Shopcore", "no-reply@shopcore.local"},
		{`no-reply@shopcore.local`, "", "no-reply@shopcore.local"},
		{`  spaced@shopcore.local  `, "", "spaced@shopcore.local"},
	}
	for _, tc := range cases {
		name, addr := utils.ParseFromAddress(tc.in)
		assert.Equal(t, tc.name, name, tc.in)
		assert.Equal(t, tc.addr, addr, tc.in)
	}
}

func TestRewriteFrom(t *testing.T) {
	// no verified domain: sandbox sender, display name preserved
	assert.Equal(t, "Shopcore <onboarding@resend.dev>",
		utils.RewriteFrom("Shopcore <no-reply@shopcore.local>", ""))
	assert.Equal(t, "onboarding@resend.dev",
		utils.RewriteFrom("no-reply@shopcore.local", ""))

	// verified domain: address on the domain passes through
	assert.Equal(t, "Shopcore <billing@shopcore.dev>",
		utils.RewriteFrom("Shopcore <billing@shopcore.dev>", "shopcore.dev"))
	// off-domain address is rewritten onto the domain
	assert.Equal(t, "Shopcore <noreply@shopcore.dev>",
		utils.RewriteFrom("Shopcore <someone@gmail.com>", "shopcore.dev"))
}

func TestResendClient_Send(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	c := utils.NewResendClient()
	c.BaseURL = srv.URL

	id, err := c.Send("re_key", &utils.ResendSendRequest{
		From:    "onboarding@resend.dev",
		To:      []string{"user@example.com"},
		Subject: "hi",
		HTML:    "<p>hi</p>",
		Attachments: []utils.ResendAttachment{
			{Filename: "a.pdf", Content: []byte("data")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_1", id)
	assert.Equal(t, "Bearer re_key", gotAuth)
	assert.Equal(t, "onboarding@resend.dev", gotBody["from"])

	atts := gotBody["attachments"].([]any)
	att := atts[0].(map[string]any)
	// []byte marshals to base64, which is what the API expects
	assert.Equal(t, "ZGF0YQ==", att["content"])
}

func TestResendClient_SendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	c := utils.NewResendClient()
	c.BaseURL = srv.URL

	_, err := c.Send("re_key", &utils.ResendSendRequest{To: []string{"user@example.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "invalid from")
}
