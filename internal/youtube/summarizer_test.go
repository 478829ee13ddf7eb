package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

func TestSummarize_ParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Bearer 토큰이 부여되어야 합니다")
		}

		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "청약 당첨 전략") {
			t.Error("프롬프트에 동영상 제목이 포함되어야 합니다")
		}

		io.WriteString(w, `{"choices": [{"message": {"content":
			"{\"summary\": \"청약 전략을 다룬 영상\", \"keywords\": [\"청약\", \"분양\"], \"category\": \"부동산\"}"
		}}]}`)
	}))
	defer server.Close()

	s := NewOpenAISummarizer(server.Client(), "test-key", server.URL, "gpt-4o-mini", testLogger())

	raw, err := s.Summarize(context.Background(), &model.Video{
		VideoID:   "vid-1",
		ChannelID: "UCx",
		Title:     "청약 당첨 전략",
	})
	if err != nil {
		t.Fatalf("에러가 없어야 합니다: %v", err)
	}

	var envelope model.SummaryEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("결과가 유효한 JSON 이어야 합니다: %v", err)
	}
	if envelope.Summary != "청약 전략을 다룬 영상" {
		t.Errorf("요약 본문이 다릅니다: %q", envelope.Summary)
	}
	if len(envelope.Keywords) != 2 || envelope.Category != "부동산" {
		t.Errorf("키워드와 카테고리가 파싱되어야 합니다: %+v", envelope)
	}
	if envelope.VideoTitle != "청약 당첨 전략" || envelope.ChannelID != "UCx" {
		t.Errorf("동영상 식별 정보가 봉투에 덧붙어야 합니다: %+v", envelope)
	}
}

func TestSummarize_NonJSONContentAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"choices": [{"message": {"content": "형식을 지키지 않은 평문 요약"}}]}`)
	}))
	defer server.Close()

	s := NewOpenAISummarizer(server.Client(), "test-key", server.URL, "gpt-4o-mini", testLogger())

	raw, err := s.Summarize(context.Background(), &model.Video{VideoID: "vid-1"})
	if err != nil {
		t.Fatalf("JSON 이 아닌 응답도 수용되어야 합니다: %v", err)
	}

	var envelope model.SummaryEnvelope
	json.Unmarshal(raw, &envelope)
	if envelope.Summary != "형식을 지키지 않은 평문 요약" {
		t.Errorf("본문 전체가 요약으로 수용되어야 합니다: %q", envelope.Summary)
	}
}

func TestSummarize_EmptyChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"choices": []}`)
	}))
	defer server.Close()

	s := NewOpenAISummarizer(server.Client(), "test-key", server.URL, "gpt-4o-mini", testLogger())

	if _, err := s.Summarize(context.Background(), &model.Video{VideoID: "vid-1"}); err == nil {
		t.Error("choices 가 비어 있으면 에러여야 합니다")
	}
}

func TestSummarize_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewOpenAISummarizer(server.Client(), "test-key", server.URL, "gpt-4o-mini", testLogger())

	if _, err := s.Summarize(context.Background(), &model.Video{VideoID: "vid-1"}); err == nil {
		t.Error("에러 상태는 에러로 반환되어야 합니다")
	}
}
