// Package catalog 只读的灵修目录，启动时从构建产物加载一次
package catalog

import (
	"fmt"
	"sort"
	"sphereview_backend/internal/model"
)

// Catalog 按规范顺序（领域顺序，再按组内序号）保存全部灵修
type Catalog struct {
	devotions []model.Devotion
	byID      map[uint]int
	bySphere  map[uint][]int
}

// New 校验并排序，返回的 Catalog 不再修改，可并发读
func New(devotions []model.Devotion) (*Catalog, error) {
	items := make([]model.Devotion, len(devotions))
	copy(items, devotions)

	seenID := make(map[uint]bool, len(items))
	seenPos := make(map[[2]int]bool, len(items))
	for _, d := range items {
		if _, ok := model.SphereByID(d.SphereID); !ok {
			return nil, fmt.Errorf("devotion %d: unknown sphere %d", d.ID, d.SphereID)
		}
		if d.OrderInSphere < 1 || d.OrderInSphere > model.ItemsPerGroup {
			return nil, fmt.Errorf("devotion %d: position %d out of range 1..%d", d.ID, d.OrderInSphere, model.ItemsPerGroup)
		}
		if seenID[d.ID] {
			return nil, fmt.Errorf("duplicate devotion id %d", d.ID)
		}
		seenID[d.ID] = true

		pos := [2]int{int(d.SphereID), d.OrderInSphere}
		if seenPos[pos] {
			return nil, fmt.Errorf("duplicate position %d in sphere %d", d.OrderInSphere, d.SphereID)
		}
		seenPos[pos] = true
	}

	sort.Slice(items, func(i, j int) bool {
		si, _ := model.SphereByID(items[i].SphereID)
		sj, _ := model.SphereByID(items[j].SphereID)
		if si.OrderIndex != sj.OrderIndex {
			return si.OrderIndex < sj.OrderIndex
		}
		return items[i].OrderInSphere < items[j].OrderInSphere
	})

	c := &Catalog{
		devotions: items,
		byID:      make(map[uint]int, len(items)),
		bySphere:  make(map[uint][]int, model.GroupCount),
	}
	for i, d := range items {
		c.byID[d.ID] = i
		c.bySphere[d.SphereID] = append(c.bySphere[d.SphereID], i)
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.devotions)
}

// All 规范顺序的副本
func (c *Catalog) All() []model.Devotion {
	out := make([]model.Devotion, len(c.devotions))
	copy(out, c.devotions)
	return out
}

func (c *Catalog) Get(id uint) (model.Devotion, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Devotion{}, false
	}
	return c.devotions[i], true
}

func (c *Catalog) BySphere(sphereID uint) []model.Devotion {
	idx := c.bySphere[sphereID]
	out := make([]model.Devotion, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.devotions[i])
	}
	return out
}

func (c *Catalog) IDsBySphere(sphereID uint) []uint {
	idx := c.bySphere[sphereID]
	ids := make([]uint, 0, len(idx))
	for _, i := range idx {
		ids = append(ids, c.devotions[i].ID)
	}
	return ids
}

// SphereOf 灵修所属领域
func (c *Catalog) SphereOf(id uint) (model.Sphere, bool) {
	d, ok := c.Get(id)
	if !ok {
		return model.Sphere{}, false
	}
	return model.SphereByID(d.SphereID)
}
