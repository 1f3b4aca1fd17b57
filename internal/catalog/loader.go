package catalog

import (
	"context"
	"fmt"
	"io"
	"sphereview_backend/internal/model"
	"sphereview_backend/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// artifactDevotion 构建产物中的一条记录，字段为 snake_case，可选字段可能为 null
type artifactDevotion struct {
	ID                 uint   `json:"id"`
	SphereID           uint   `json:"sphere_id"`
	Slug               string `json:"slug"`
	Code               string `json:"code"`
	OrderInSphere      int    `json:"order_in_sphere"`
	Title              string `json:"title"`
	ScriptureReference string `json:"scripture_reference"`
	CategoryTitle      string `json:"category_title"`
	YouTubeURL         string `json:"youtube_url"`
	Transcript         string `json:"transcript"`
	ReflectionQ1       string `json:"reflection_q1"`
	ReflectionQ2       string `json:"reflection_q2"`
	ReflectionQ3       string `json:"reflection_q3"`
	ReflectionQ4       string `json:"reflection_q4"`
	CallToAction       string `json:"call_to_action"`
}

// Decode 解析构建产物
func Decode(r io.Reader) (*Catalog, error) {
	var raw []artifactDevotion
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	devotions := make([]model.Devotion, 0, len(raw))
	for _, a := range raw {
		if a.Slug != "" {
			if s, ok := model.SphereBySlug(a.Slug); !ok || s.ID != a.SphereID {
				return nil, fmt.Errorf("devotion %d: slug %q does not match sphere %d", a.ID, a.Slug, a.SphereID)
			}
		}
		devotions = append(devotions, model.Devotion{
			ID:                 a.ID,
			SphereID:           a.SphereID,
			Code:               a.Code,
			OrderInSphere:      a.OrderInSphere,
			Title:              a.Title,
			ScriptureReference: a.ScriptureReference,
			CategoryTitle:      a.CategoryTitle,
			YouTubeURL:         a.YouTubeURL,
			Transcript:         a.Transcript,
			ReflectionQ1:       a.ReflectionQ1,
			ReflectionQ2:       a.ReflectionQ2,
			ReflectionQ3:       a.ReflectionQ3,
			ReflectionQ4:       a.ReflectionQ4,
			CallToAction:       a.CallToAction,
		})
	}

	return New(devotions)
}

// Load 从来源读取并解析目录
func Load(ctx context.Context, src Source) (*Catalog, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", src.Name(), err)
	}
	defer rc.Close()

	c, err := Decode(rc)
	if err != nil {
		return nil, err
	}

	if c.Len() != model.TotalItems {
		logger.Log.Warn("Catalog size differs from expected",
			zap.Int("loaded", c.Len()),
			zap.Int("expected", model.TotalItems),
		)
	}
	logger.Log.Info("Catalog loaded", zap.String("source", src.Name()), zap.Int("devotions", c.Len()))
	return c, nil
}
