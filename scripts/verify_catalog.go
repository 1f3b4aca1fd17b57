// 离线校验灵修目录构建产物
//
// 检查每个领域是否恰好52条、序号是否连续、反思问题是否齐全。
// 发布新的 devotions.json 前运行。
//
// 用法: go run scripts/verify_catalog.go [配置目录]

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sphereview_backend/internal/catalog"
	"sphereview_backend/internal/config"
	"sphereview_backend/internal/model"
	"time"
)

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	src, err := catalog.NewSource(cfg)
	if err != nil {
		log.Fatalf("目录来源配置错误: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		log.Fatalf("目录加载失败: %v", err)
	}

	problems := 0
	for _, sphere := range model.Spheres {
		devotions := cat.BySphere(sphere.ID)
		if len(devotions) != model.ItemsPerGroup {
			fmt.Printf("[%s] 共 %d 条，应为 %d 条\n", sphere.Slug, len(devotions), model.ItemsPerGroup)
			problems++
		}
		for i, d := range devotions {
			if d.OrderInSphere != i+1 {
				fmt.Printf("[%s] 序号不连续: 第 %d 条为 %d\n", sphere.Slug, i+1, d.OrderInSphere)
				problems++
				break
			}
		}
		for _, d := range devotions {
			if len(d.RequiredKeys()) == 0 {
				fmt.Printf("[%s] %s 没有反思问题，无法完成反思\n", sphere.Slug, d.Code)
				problems++
			}
			if d.ScriptureReference == "" {
				fmt.Printf("[%s] %s 缺少经文出处\n", sphere.Slug, d.Code)
			}
		}
	}

	fmt.Printf("来源 %s，共 %d 条\n", src.Name(), cat.Len())
	if problems > 0 {
		log.Fatalf("发现 %d 个问题", problems)
	}
	log.Println("完成！")
}
