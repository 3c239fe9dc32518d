// Package llm talks to hosted language models that turn a dispatch request
// into Korean-keyed JSON.
package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt sets the model's role for every request.
const SystemPrompt = "당신은 배차 요청 텍스트를 구조화된 JSON 데이터로 변환하는 전문가입니다. 항상 유효한 JSON 형식만 반환합니다."

const userPromptTemplate = `다음 배차 요청 텍스트를 분석하여 JSON 형식으로 구조화된 데이터를 추출해주세요.

배차 요청 텍스트:
"""
%s
"""

다음 필드들을 추출하여 JSON 형식으로 반환해주세요:
- 운송계약번호: %s
- 고객사명: 업체명, 고객사명 등
- 상차일자: 상차일, 상차일자, 배차일자, 배차일 등 (YYYY-MM-DD 형식으로 변환)
- 하차일자: 하차일, 하차일자 등 (YYYY-MM-DD 형식으로 변환)
- 상차지명: 상차지명, 상차지 업체명, 출발지 업체명 등
- 상차지주소: 상차지 주소, 출발지 주소, 상차지, 출 등
- 하차지명: 하차지명, 하차지 업체명, 도착지 업체명, 착지 업체명 등
- 하차지주소: 하차지 주소, 도착지 주소, 하차지, 도착지, 착, 착지 등
- 요청톤수: 요청톤수, 차량톤수, 톤수, 차량 톤수 등
- 담당자명: 담당자 이름 (하차지 담당자 우선, 없으면 상차지 담당자)
- 담당자연락처: 담당자 전화번호 (하차지 담당자 연락처 우선, 없으면 상차지 담당자 연락처)
- 비고: 비고, 특이사항, 기타, 요청사항, 수작업유무 등

주의사항:
1. 날짜는 반드시 YYYY-MM-DD 형식으로 변환 (예: 25.05.27 → 2025-05-27, 5/27 → 2025-05-27)
2. 주소와 업체명이 함께 있는 경우 분리
3. 전화번호는 숫자와 하이픈만 포함
4. 값이 없으면 빈 문자열("")로 반환
5. 반드시 유효한 JSON 형식으로만 응답 (설명 없이 JSON만)

JSON 형식:
%s`

// UserPrompt builds the per-request prompt.
func UserPrompt(text, contractNo string) string {
	return fmt.Sprintf(userPromptTemplate, strings.TrimSpace(text), contractNo, responseSkeleton())
}

// responseSkeleton renders the expected JSON shape with every key empty.
func responseSkeleton() string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, k := range ResponseKeys {
		fmt.Fprintf(&b, "  %q: \"\"", k)
		if i < len(ResponseKeys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
