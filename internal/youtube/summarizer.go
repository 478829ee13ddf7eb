package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// summaryPrompt 는 요약 생성에 쓰는 시스템 프롬프트.
// 응답은 SummaryEnvelope 와 같은 형태의 JSON 객체여야 한다.
const summaryPrompt = `당신은 부동산·주거 분야 동영상 콘텐츠를 요약하는 도우미입니다.
주어진 동영상의 제목과 설명을 바탕으로 핵심 내용을 3문장 이내로 요약하고,
관련 키워드(최대 5개)와 카테고리를 붙여 아래 형식의 JSON 으로만 답하세요:
{"summary": "...", "keywords": ["..."], "category": "..."}`

// Summarizer 는 동영상 요약 생성 기능의 인터페이스.
type Summarizer interface {
	// Summarize 는 동영상 메타데이터로부터 요약을 생성한다.
	// 반환 바이트는 summary_data 열에 그대로 저장 가능한 JSON 이다.
	Summarize(ctx context.Context, video *model.Video) (json.RawMessage, error)
}

// OpenAISummarizer 는 OpenAI 호환 chat completions API 로 요약을 생성한다.
// 엔드포인트가 교체 가능하므로 호환 API 를 제공하는 다른 제공자도 쓸 수 있다.
type OpenAISummarizer struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	apiURL     string
	modelName  string
}

// NewOpenAISummarizer 는 OpenAISummarizer 의 새 인스턴스를 생성한다.
func NewOpenAISummarizer(httpClient *http.Client, apiKey, apiURL, modelName string, logger *slog.Logger) *OpenAISummarizer {
	return &OpenAISummarizer{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		apiURL:     apiURL,
		modelName:  modelName,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarize 는 동영상 메타데이터로부터 요약 JSON 을 생성한다.
// 모델 응답에 동영상 식별 정보를 덧붙인 SummaryEnvelope 형태로 반환한다.
func (s *OpenAISummarizer) Summarize(ctx context.Context, video *model.Video) (json.RawMessage, error) {
	userContent := fmt.Sprintf("제목: %s\n\n설명: %s", video.Title, video.Description)

	payload, err := json.Marshal(chatRequest{
		Model: s.modelName,
		Messages: []chatMessage{
			{Role: "system", Content: summaryPrompt},
			{Role: "user", Content: userContent},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("요청 직렬화에 실패했습니다: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("HTTP 요청 생성에 실패했습니다: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("summary API request failed",
			slog.String("video_id", video.VideoID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("요약 API 호출에 실패했습니다: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("요약 API 가 상태 %d 를 반환했습니다", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 본문 읽기에 실패했습니다: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("요약 API 응답 파싱에 실패했습니다: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("요약 API 응답에 결과가 없습니다")
	}

	var envelope model.SummaryEnvelope
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &envelope); err != nil {
		// 모델이 JSON 형식을 지키지 않은 경우: 본문 전체를 요약으로 수용한다
		envelope = model.SummaryEnvelope{Summary: chat.Choices[0].Message.Content}
	}
	envelope.VideoTitle = video.Title
	envelope.ChannelID = video.ChannelID

	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("요약 직렬화에 실패했습니다: %w", err)
	}
	return raw, nil
}

// compile-time interface check
var _ Summarizer = (*OpenAISummarizer)(nil)
