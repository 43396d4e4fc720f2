package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nsxzhou1114/posttag-api/pkg/auth"
	"github.com/spf13/cobra"
)

// tokenCmd 令牌管理命令
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "令牌管理命令",
	Long:  `签发和撤销访问令牌，管理接口需要管理员令牌`,
}

// issueTokenCmd 签发令牌命令
// 示例：./posttag-api token issue --user-id 1 --role admin --ttl 24h
var issueTokenCmd = &cobra.Command{
	Use:   "issue",
	Short: "签发访问令牌",
	Run: func(cmd *cobra.Command, args []string) {
		userID, _ := cmd.Flags().GetUint("user-id")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if err := initializeBase(); err != nil {
			fmt.Printf("系统初始化失败: %v\n", err)
			os.Exit(1)
		}
		token, claims, err := auth.GenerateToken(userID, role, ttl)
		if err != nil {
			fmt.Printf("签发令牌失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("令牌ID: %s\n", claims.Id)
		fmt.Printf("过期时间: %s\n", time.Unix(claims.ExpiresAt, 0).Format("2006-01-02 15:04:05"))
		fmt.Println(token)
	},
}

// revokeTokenCmd 撤销令牌命令
// 示例：./posttag-api token revoke eyJhbGciOi...
var revokeTokenCmd = &cobra.Command{
	Use:   "revoke [token]",
	Short: "撤销访问令牌",
	Long:  `把令牌加入黑名单，只有使用redis黑名单时对运行中的服务生效`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initializeBase(); err != nil {
			fmt.Printf("系统初始化失败: %v\n", err)
			os.Exit(1)
		}
		if err := auth.RevokeToken(context.Background(), args[0]); err != nil {
			fmt.Printf("撤销令牌失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("令牌已撤销")
	},
}

func init() {
	issueTokenCmd.Flags().Uint("user-id", 1, "用户ID")
	issueTokenCmd.Flags().String("role", auth.RoleAdmin, "角色")
	issueTokenCmd.Flags().Duration("ttl", 0, "有效期，为0时使用配置")

	tokenCmd.AddCommand(issueTokenCmd)
	tokenCmd.AddCommand(revokeTokenCmd)

	rootCmd.AddCommand(tokenCmd)
}
