package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

const channelJSON = `{
  "items": [{
    "id": "UCxxxxxxxxxxxxxxxxxxxxxx",
    "snippet": {
      "title": "부동산 채널",
      "description": "주택 청약 정보",
      "customUrl": "@budongsan",
      "thumbnails": {"high": {"url": "https://i.ytimg.com/ch.jpg"}}
    },
    "statistics": {
      "subscriberCount": "12000",
      "videoCount": "340",
      "viewCount": "9876543"
    },
    "contentDetails": {"relatedPlaylists": {"uploads": "UUxxxxxxxxxxxxxxxxxxxxxx"}}
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(server.Client(), "test-api-key", testLogger())
	client.endpoint = server.URL
	return client, server
}

func TestFetchChannelByID_MapsFields(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/channels" {
			t.Errorf("경로가 다릅니다: %q", r.URL.Path)
		}
		if r.URL.Query().Get("id") != "UCxxxxxxxxxxxxxxxxxxxxxx" {
			t.Errorf("id 파라미터가 다릅니다: %q", r.URL.Query().Get("id"))
		}
		if r.URL.Query().Get("key") != "test-api-key" {
			t.Error("API 키가 부여되어야 합니다")
		}
		io.WriteString(w, channelJSON)
	})
	defer server.Close()

	ch, err := client.FetchChannelByID(context.Background(), "UCxxxxxxxxxxxxxxxxxxxxxx")
	if err != nil {
		t.Fatalf("에러가 없어야 합니다: %v", err)
	}

	if ch.Title != "부동산 채널" {
		t.Errorf("제목이 다릅니다: %q", ch.Title)
	}
	if ch.SubscriberCount != 12000 {
		t.Errorf("구독자 수가 정수로 변환되어야 합니다: %d", ch.SubscriberCount)
	}
	if ch.UploadsPlaylistID != "UUxxxxxxxxxxxxxxxxxxxxxx" {
		t.Errorf("업로드 재생목록 ID 가 추출되어야 합니다: %q", ch.UploadsPlaylistID)
	}
	if len(ch.ChannelData) == 0 {
		t.Error("원본 응답이 ChannelData 에 보존되어야 합니다")
	}
}

func TestFetchChannelByHandle_UsesForHandleParam(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("forHandle") != "budongsan" {
			t.Errorf("forHandle 파라미터가 다릅니다: %q", r.URL.Query().Get("forHandle"))
		}
		io.WriteString(w, channelJSON)
	})
	defer server.Close()

	if _, err := client.FetchChannelByHandle(context.Background(), "budongsan"); err != nil {
		t.Fatalf("에러가 없어야 합니다: %v", err)
	}
}

func TestFetchChannel_EmptyItemsIsNotFound(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"items": []}`)
	})
	defer server.Close()

	_, err := client.FetchChannelByID(context.Background(), "UCmissing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeChannelNotFound {
		t.Errorf("빈 items 는 CHANNEL_NOT_FOUND 여야 합니다: %v", err)
	}
}

func TestFetchChannel_ErrorStatus(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	defer server.Close()

	if _, err := client.FetchChannelByID(context.Background(), "UCx"); err == nil {
		t.Error("에러 상태는 에러로 반환되어야 합니다")
	}
}

func TestFetchVideos_TwoStepFetch(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlistItems":
			if r.URL.Query().Get("playlistId") != "UUxxxxxxxxxxxxxxxxxxxxxx" {
				t.Errorf("재생목록 ID 가 다릅니다: %q", r.URL.Query().Get("playlistId"))
			}
			io.WriteString(w, `{"items": [
				{"contentDetails": {"videoId": "vid-1"}},
				{"contentDetails": {"videoId": "vid-2"}}
			]}`)
		case "/videos":
			if r.URL.Query().Get("id") != "vid-1,vid-2" {
				t.Errorf("동영상 ID 목록이 다릅니다: %q", r.URL.Query().Get("id"))
			}
			io.WriteString(w, `{"items": [{
				"id": "vid-1",
				"snippet": {
					"title": "청약 당첨 전략",
					"publishedAt": "2025-08-15T09:00:00Z",
					"thumbnails": {"high": {"url": "https://i.ytimg.com/vid-1.jpg"}}
				},
				"contentDetails": {"duration": "PT12M34S"},
				"statistics": {"viewCount": "5000", "likeCount": "120", "commentCount": "30"}
			}]}`)
		default:
			t.Errorf("예상하지 못한 경로: %q", r.URL.Path)
		}
	})
	defer server.Close()

	channel := &model.Channel{
		ChannelID:         "UCxxxxxxxxxxxxxxxxxxxxxx",
		UploadsPlaylistID: "UUxxxxxxxxxxxxxxxxxxxxxx",
	}

	videos, err := client.FetchVideos(context.Background(), channel)
	if err != nil {
		t.Fatalf("에러가 없어야 합니다: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("상세가 있는 동영상 1건이 반환되어야 합니다, got %d", len(videos))
	}

	v := videos[0]
	if v.Title != "청약 당첨 전략" || v.Duration != "PT12M34S" || v.ViewCount != 5000 {
		t.Errorf("동영상 필드 매핑이 다릅니다: %+v", v)
	}
	if v.PublishedAt == nil {
		t.Error("게시 일시가 파싱되어야 합니다")
	}
	if v.ChannelID != channel.ChannelID {
		t.Errorf("채널 ID 가 채워져야 합니다: %q", v.ChannelID)
	}
}

func TestFetchVideos_NoUploadsPlaylist(t *testing.T) {
	client, server := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("재생목록 없는 채널은 요청을 보내지 않아야 합니다")
	})
	defer server.Close()

	_, err := client.FetchVideos(context.Background(), &model.Channel{ChannelID: "UCx"})
	if err == nil {
		t.Error("업로드 재생목록이 없으면 에러여야 합니다")
	}
}

func TestParseCount_Defaults(t *testing.T) {
	if parseCount("") != 0 {
		t.Error("빈 카운터는 0 이어야 합니다")
	}
	if parseCount("abc") != 0 {
		t.Error("숫자가 아닌 카운터는 0 이어야 합니다")
	}
	if parseCount("42") != 42 {
		t.Error("숫자 카운터는 변환되어야 합니다")
	}
}
