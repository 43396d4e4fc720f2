package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/nsxzhou1114/posttag-api/internal/database"
	"github.com/nsxzhou1114/posttag-api/internal/model"
	"github.com/nsxzhou1114/posttag-api/internal/repository"
	"github.com/nsxzhou1114/posttag-api/internal/service"
	"github.com/spf13/cobra"
)

// databaseCmd 数据库管理命令
var databaseCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库管理命令",
	Long:  `数据库管理相关的命令，包括建表、重建搜索索引和统计`,
}

// migrateCmd 初始化数据库表命令
// 示例：./posttag-api db migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "初始化数据库表",
	Long:  `自动迁移数据库表，启用Elasticsearch时同时创建索引`,
	Run: func(cmd *cobra.Command, args []string) {
		mustInitialize()
		fmt.Println("数据库表和索引初始化完成")
	},
}

// reindexCmd 重建文章标签索引命令
// 示例：./posttag-api db reindex
var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "重建文章标签索引",
	Long:  `按数据库中的关联全量重建Elasticsearch中的文章标签文档`,
	Run: func(cmd *cobra.Command, args []string) {
		mustInitialize()
		reindexPostTags()
	},
}

// countsCmd 标签文章数统计命令
// 示例：./posttag-api db counts --order-by name --order asc
var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "统计标签文章数",
	Long:  `列出全部标签及各自关联的文章数`,
	Run: func(cmd *cobra.Command, args []string) {
		mustInitialize()
		printTagCounts(cmd)
	},
}

func init() {
	countsCmd.Flags().String("order-by", "id", "排序字段: id name slug created_at updated_at")
	countsCmd.Flags().String("order", "asc", "排序方向: asc desc")

	databaseCmd.AddCommand(migrateCmd)
	databaseCmd.AddCommand(reindexCmd)
	databaseCmd.AddCommand(countsCmd)

	rootCmd.AddCommand(databaseCmd)
}

func mustInitialize() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
}

// reindexPostTags 重建文章标签索引
func reindexPostTags() {
	if !config.GetConfig().Elasticsearch.Enabled {
		fmt.Println("未启用Elasticsearch，无需重建索引")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	start := time.Now()
	total, err := service.GetPostTagIndexService().Reindex(ctx)
	if err != nil {
		fmt.Printf("重建索引失败(已处理 %d 篇文章): %v\n", total, err)
		os.Exit(1)
	}
	fmt.Printf("成功重建 %d 篇文章的标签索引, 耗时 %s\n", total, time.Since(start).Round(time.Millisecond))
}

// printTagCounts 输出标签文章数
func printTagCounts(cmd *cobra.Command) {
	orderBy, _ := cmd.Flags().GetString("order-by")
	order, _ := cmd.Flags().GetString("order")

	direction, err := repository.ParseDirection(order)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	tags, err := service.GetPostTagService().ListTagsWithPostCount(context.Background(), repository.By(direction, orderBy))
	if err != nil {
		fmt.Printf("统计失败: %v\n", err)
		os.Exit(1)
	}

	var links int64
	if err := database.GetDB().Model(&model.PostTag{}).Count(&links).Error; err != nil {
		fmt.Printf("统计关联总数失败: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\t名称\t别名\t文章数")
	for _, tag := range tags {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", tag.ID, tag.Name, tag.Slug, tag.PostCount)
	}
	w.Flush()
	fmt.Printf("共 %d 个标签, %d 条关联\n", len(tags), links)
}
