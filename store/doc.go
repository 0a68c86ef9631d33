// Copyright (c) Kefuflow Authors.
// Licensed under the MIT License.

/*
Package store 提供能力工具背后的 SQL 数据访问。

订单、商品、客服工单三张表由 GORM 管理，
支持 PostgreSQL、MySQL、SQLite 等后端。
Init 负责自动迁移；SeedDemoData 写入开发环境示例数据。

本包只服务工具层的查询与写入，
会话与租户仓储不在此包（它们保持为调用方实现的接口）。
*/
package store
