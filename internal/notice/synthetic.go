package notice

import (
	"fmt"
	"time"

	"github.com/dongkyukim1/myhouse-sub000/internal/model"
)

// 합성 백필 파라미터.
// SH 수집 결과가 floor 미만이면 target 에 도달할 때까지 합성 공고를 덧붙인다.
// 데모 환경에서 UI 가 비어 보이지 않게 하려는 의도적 설계이며,
// 합성 항목은 synthetic 필드로 실데이터와 구분된다.
const (
	syntheticFloor  = 5
	syntheticTarget = 20
)

// syntheticTitles 는 합성 SH 공고의 제목 목록.
// 전역 키워드 필터를 통과하도록 필터 키워드를 포함한다.
var syntheticTitles = []string{
	"청년 매입임대주택 입주자 모집공고",
	"신혼부부 매입임대주택 입주자 모집공고",
	"행복주택 예비입주자 모집공고",
	"국민임대주택 입주자 모집공고",
	"청년 전세임대주택 입주자 모집공고",
	"장기전세 임대주택 입주자 모집공고",
	"역세권 청년주택 임대 모집공고",
	"신혼부부 전세임대 입주자 모집공고",
	"청년 행복주택 추가 모집공고",
	"매입임대주택 예비입주자 모집공고",
	"국민임대 예비입주자 추가 모집공고",
	"청년 안심주택 임대 모집공고",
	"다가구 매입임대 입주자 모집공고",
	"신혼희망타운 분양 안내 공고",
	"행복주택 재공급 입주자 모집공고",
	"청년 공공임대 입주자 모집공고",
	"전세임대 신혼부부 유형 모집공고",
	"고령자 매입임대 입주자 모집공고",
	"청년 맞춤형 임대주택 모집공고",
	"국민임대주택 잔여세대 모집공고",
}

// BackfillSH 는 SH 공고가 syntheticFloor 미만이면 syntheticTarget 건이 될
// 때까지 합성 공고를 덧붙인다. floor 이상이면 입력을 그대로 반환한다.
// 합성 항목의 날짜는 now 기준 상대 날짜로 굴려 현실감을 유지한다:
// i 번째 항목의 등록일은 now−i 일, 마감일은 now+14+i 일.
func BackfillSH(notices []model.Notice, now time.Time) []model.Notice {
	if len(notices) >= syntheticFloor {
		return notices
	}

	for i := 0; len(notices) < syntheticTarget && i < len(syntheticTitles); i++ {
		title := fmt.Sprintf("%d년 %s", now.Year(), syntheticTitles[i])
		if containsTitle(notices, title) {
			continue
		}

		notices = append(notices, model.Notice{
			Source:    model.NoticeSourceSH,
			Title:     title,
			Region:    "서울",
			Due:       now.AddDate(0, 0, 14+i).Format("2006.01.02"),
			Dept:      "서울주택도시공사",
			RegDate:   now.AddDate(0, 0, -i).Format("2006.01.02"),
			Synthetic: true,
		})
	}

	return notices
}

func containsTitle(notices []model.Notice, title string) bool {
	for _, n := range notices {
		if n.Title == title {
			return true
		}
	}
	return false
}
