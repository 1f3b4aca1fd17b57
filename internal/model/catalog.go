package model

import "strings"

// 目录规模是固定的领域常量，所有百分比都以此为分母，不从实际数据推算
const (
	GroupCount    = 8
	ItemsPerGroup = 52
	TotalItems    = GroupCount * ItemsPerGroup

	// CompletionThreshold 观看百分比达到该值即视为已观看
	CompletionThreshold = 90

	MaxResponseWords = 500
	MaxResponseChars = 4000
)

// Sphere 灵修领域分组
// swagger:model Sphere
type Sphere struct {
	ID           uint   `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ColorPrimary string `json:"colorPrimary"`
	Icon         string `json:"icon"`
	OrderIndex   int    `json:"orderIndex"`
}

// Spheres 固定的8个领域，按展示顺序排列
var Spheres = []Sphere{
	{ID: 1, Slug: "foundational", Name: "Foundational", Description: "Biblical foundations for life and society", ColorPrimary: "#323b43", Icon: "Fou.svg", OrderIndex: 1},
	{ID: 2, Slug: "family", Name: "Family", Description: "God and the sphere of family", ColorPrimary: "#ff3a30", Icon: "Fam.svg", OrderIndex: 2},
	{ID: 3, Slug: "economics", Name: "Economics", Description: "Biblical wisdom for economics", ColorPrimary: "#ff9600", Icon: "Eco.svg", OrderIndex: 3},
	{ID: 4, Slug: "government", Name: "Government", Description: "Government and authority under God", ColorPrimary: "#ffcc01", Icon: "Gov.svg", OrderIndex: 4},
	{ID: 5, Slug: "religion", Name: "Religion", Description: "Faith and worship", ColorPrimary: "#88c807", Icon: "Rel.svg", OrderIndex: 5},
	{ID: 6, Slug: "education", Name: "Education", Description: "Learning and teaching", ColorPrimary: "#25b7d6", Icon: "Edu.svg", OrderIndex: 6},
	{ID: 7, Slug: "media", Name: "Media/Communication", Description: "Media and communication", ColorPrimary: "#595ad3", Icon: "Com.svg", OrderIndex: 7},
	{ID: 8, Slug: "celebration", Name: "Celebration", Description: "Celebration and the arts", ColorPrimary: "#df57ad", Icon: "Cel.svg", OrderIndex: 8},
}

func SphereBySlug(slug string) (Sphere, bool) {
	for _, s := range Spheres {
		if s.Slug == slug {
			return s, true
		}
	}
	return Sphere{}, false
}

func SphereByID(id uint) (Sphere, bool) {
	for _, s := range Spheres {
		if s.ID == id {
			return s, true
		}
	}
	return Sphere{}, false
}

// QuestionKey 反思问题编号
type QuestionKey string

const (
	QuestionQ1 QuestionKey = "q1"
	QuestionQ2 QuestionKey = "q2"
	QuestionQ3 QuestionKey = "q3"
	QuestionQ4 QuestionKey = "q4"
)

var QuestionKeys = []QuestionKey{QuestionQ1, QuestionQ2, QuestionQ3, QuestionQ4}

func (k QuestionKey) Valid() bool {
	for _, q := range QuestionKeys {
		if k == q {
			return true
		}
	}
	return false
}

// Devotion 静态目录中的一条灵修内容，加载后不可变
// swagger:model Devotion
type Devotion struct {
	ID                 uint   `json:"id"`
	SphereID           uint   `json:"sphereId"`
	Code               string `json:"code"`
	OrderInSphere      int    `json:"orderInSphere"`
	Title              string `json:"title"`
	ScriptureReference string `json:"scriptureReference"`
	CategoryTitle      string `json:"categoryTitle,omitempty"`
	YouTubeURL         string `json:"youtubeUrl"`
	Transcript         string `json:"transcript,omitempty"`
	ReflectionQ1       string `json:"reflectionQ1,omitempty"`
	ReflectionQ2       string `json:"reflectionQ2,omitempty"`
	ReflectionQ3       string `json:"reflectionQ3,omitempty"`
	ReflectionQ4       string `json:"reflectionQ4,omitempty"`
	CallToAction       string `json:"callToAction,omitempty"`
}

// Prompt 返回指定编号的反思问题，空字符串表示该问题不存在
func (d Devotion) Prompt(key QuestionKey) string {
	switch key {
	case QuestionQ1:
		return strings.TrimSpace(d.ReflectionQ1)
	case QuestionQ2:
		return strings.TrimSpace(d.ReflectionQ2)
	case QuestionQ3:
		return strings.TrimSpace(d.ReflectionQ3)
	case QuestionQ4:
		return strings.TrimSpace(d.ReflectionQ4)
	}
	return ""
}

// RequiredKeys 该灵修实际存在的反思问题（不保证4个都有）
func (d Devotion) RequiredKeys() []QuestionKey {
	keys := make([]QuestionKey, 0, len(QuestionKeys))
	for _, k := range QuestionKeys {
		if d.Prompt(k) != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
