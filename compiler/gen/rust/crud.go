package rust

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenRepository generates the sqlx query layer for one table.
func (t *Target) GenRepository(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkCol  = pkName(table)
		cols   = writableColumns(c, table)
	)
	var b strings.Builder
	b.WriteString("use sqlx::PgPool;\n\n")
	fmt.Fprintf(&b, "use crate::%s::dto::Create%s;\n", module, entity)
	fmt.Fprintf(&b, "use crate::%s::model::%s;\n", module, entity)
	for _, rel := range inverseModules(ctx) {
		fmt.Fprintf(&b, "use crate::%s::model::%s;\n", rel.module, rel.entity)
	}
	b.WriteString("\n")

	liveFilter, liveClause := "", ""
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		liveFilter = " WHERE deleted_at IS NULL"
		liveClause = " AND deleted_at IS NULL"
	}
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		fmt.Fprintf(&b, `pub async fn find_page(pool: &PgPool, limit: i64, offset: i64) -> sqlx::Result<Vec<%s>> {
    sqlx::query_as::<_, %s>("SELECT * FROM %s%s ORDER BY %s LIMIT $1 OFFSET $2")
        .bind(limit)
        .bind(offset)
        .fetch_all(pool)
        .await
}

`, entity, entity, table.Name, liveFilter, pkCol)
	}
	fmt.Fprintf(&b, `pub async fn find_all(pool: &PgPool) -> sqlx::Result<Vec<%s>> {
    sqlx::query_as::<_, %s>("SELECT * FROM %s%s ORDER BY %s")
        .fetch_all(pool)
        .await
}

pub async fn find_by_id(pool: &PgPool, id: %s) -> sqlx::Result<Option<%s>> {
    sqlx::query_as::<_, %s>("SELECT * FROM %s WHERE %s = $1%s")
        .bind(id)
        .fetch_optional(pool)
        .await
}

`, entity, entity, table.Name, liveFilter, pkCol, t.pkType(table), entity, entity, table.Name, pkCol, liveClause)

	// INSERT over the writable columns, RETURNING the full row.
	placeholders := make([]string, len(cols))
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	fmt.Fprintf(&b, "pub async fn insert(pool: &PgPool, payload: Create%s) -> sqlx::Result<%s> {\n", entity, entity)
	fmt.Fprintf(&b, "    sqlx::query_as::<_, %s>(\n        \"INSERT INTO %s (%s) VALUES (%s) RETURNING *\",\n    )\n",
		entity, table.Name, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	for _, col := range cols {
		fmt.Fprintf(&b, "    .bind(payload.%s)\n", col.Name)
	}
	b.WriteString("    .fetch_one(pool)\n    .await\n}\n\n")

	// UPDATE writes the full row back; the service applies the payload first.
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col.Name, i+1)
	}
	fmt.Fprintf(&b, "pub async fn update(pool: &PgPool, row: &%s) -> sqlx::Result<%s> {\n", entity, entity)
	fmt.Fprintf(&b, "    sqlx::query_as::<_, %s>(\n        \"UPDATE %s SET %s WHERE %s = $%d RETURNING *\",\n    )\n",
		entity, table.Name, strings.Join(sets, ", "), pkCol, len(cols)+1)
	for _, col := range cols {
		fmt.Fprintf(&b, "    .bind(row.%s.clone())\n", col.Name)
	}
	fmt.Fprintf(&b, "    .bind(row.%s)\n    .fetch_one(pool)\n    .await\n}\n\n", pkCol)

	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		fmt.Fprintf(&b, `pub async fn delete(pool: &PgPool, id: %s) -> sqlx::Result<u64> {
    sqlx::query("UPDATE %s SET deleted_at = now() WHERE %s = $1")
        .bind(id)
        .execute(pool)
        .await
        .map(|r| r.rows_affected())
}
`, t.pkType(table), table.Name, pkCol)
	} else {
		fmt.Fprintf(&b, `pub async fn delete(pool: &PgPool, id: %s) -> sqlx::Result<u64> {
    sqlx::query("DELETE FROM %s WHERE %s = $1")
        .bind(id)
        .execute(pool)
        .await
        .map(|r| r.rows_affected())
}
`, t.pkType(table), table.Name, pkCol)
	}

	if c.FeatureEnabled(gen.FeatureOneToMany.Name) {
		for _, rel := range ctx.Inverse {
			target := ctx.Schema.Table(rel.TargetTable)
			if target == nil {
				continue
			}
			fmt.Fprintf(&b, `
pub async fn %s_of(pool: &PgPool, id: %s) -> sqlx::Result<Vec<%s>> {
    sqlx::query_as::<_, %s>("SELECT * FROM %s WHERE %s = $1 ORDER BY %s")
        .bind(id)
        .fetch_all(pool)
        .await
}
`, schema.Snake(rel.FieldName()), t.pkType(table), target.EntityName(),
				target.EntityName(), target.Name, rel.ForeignKey.Column, pkName(target))
		}
	}
	if c.FeatureEnabled(gen.FeatureManyToMany.Name) {
		for _, rel := range ctx.ManyToMany {
			target := rel.TargetTable
			fmt.Fprintf(&b, `
pub async fn %s_of(pool: &PgPool, id: %s) -> sqlx::Result<Vec<%s>> {
    sqlx::query_as::<_, %s>(
        "SELECT t.* FROM %s t JOIN %s j ON j.%s = t.%s WHERE j.%s = $1 ORDER BY t.%s",
    )
    .bind(id)
    .fetch_all(pool)
    .await
}
`, schema.Snake(rel.FieldName()), t.pkType(table), target.EntityName(), target.EntityName(),
				target.Name, rel.JunctionTable, rel.TargetColumn, pkName(target), rel.SourceColumn, pkName(target))
		}
	}
	return gen.File{
		Path:    modulePath(table) + "/repository.rs",
		Content: b.String(),
	}
}

// GenService generates the service layer for one table.
func (t *Target) GenService(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkTyp  = t.pkType(table)
	)
	var b strings.Builder
	b.WriteString("use sqlx::PgPool;\n\n")
	b.WriteString("use crate::error::AppError;\n")
	fmt.Fprintf(&b, "use crate::%s::dto::{Create%s, Update%s};\n", module, entity, entity)
	fmt.Fprintf(&b, "use crate::%s::mapper;\n", module)
	fmt.Fprintf(&b, "use crate::%s::model::%s;\n", module, entity)
	fmt.Fprintf(&b, "use crate::%s::repository;\n\n", module)

	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		fmt.Fprintf(&b, `pub async fn list(pool: &PgPool, limit: i64, offset: i64) -> Result<Vec<%s>, AppError> {
    Ok(repository::find_page(pool, limit, offset).await?)
}

`, entity)
	} else {
		fmt.Fprintf(&b, `pub async fn list(pool: &PgPool) -> Result<Vec<%s>, AppError> {
    Ok(repository::find_all(pool).await?)
}

`, entity)
	}
	fmt.Fprintf(&b, `pub async fn get(pool: &PgPool, id: %s) -> Result<%s, AppError> {
    repository::find_by_id(pool, id)
        .await?
        .ok_or_else(|| AppError::not_found(%q, id))
}

pub async fn create(pool: &PgPool, payload: Create%s) -> Result<%s, AppError> {
    Ok(repository::insert(pool, payload).await?)
}

`, pkTyp, entity, entity, entity, entity)
	if c.FeatureEnabled(gen.FeatureBatchOperations.Name) {
		fmt.Fprintf(&b, `pub async fn create_batch(pool: &PgPool, payloads: Vec<Create%s>) -> Result<Vec<%s>, AppError> {
    let mut rows = Vec::with_capacity(payloads.len());
    for payload in payloads {
        rows.push(repository::insert(pool, payload).await?);
    }
    Ok(rows)
}

`, entity, entity)
	}
	fmt.Fprintf(&b, `pub async fn update(pool: &PgPool, id: %s, payload: Update%s) -> Result<%s, AppError> {
    let mut row = get(pool, id).await?;
    mapper::apply_update(&mut row, payload);
    Ok(repository::update(pool, &row).await?)
}

pub async fn delete(pool: &PgPool, id: %s) -> Result<(), AppError> {
    if repository::delete(pool, id).await? == 0 {
        return Err(AppError::not_found(%q, id));
    }
    Ok(())
}
`, pkTyp, entity, entity, pkTyp, entity)
	return gen.File{
		Path:    modulePath(table) + "/service.rs",
		Content: b.String(),
	}
}

// GenController generates the axum handlers and the module router.
func (t *Target) GenController(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkTyp  = t.pkType(table)
		route  = strings.ReplaceAll(table.Name, "_", "-")
	)
	var b strings.Builder
	batch := c.FeatureEnabled(gen.FeatureBatchOperations.Name)
	b.WriteString("use axum::extract::{Path, State};\nuse axum::http::StatusCode;\n")
	if batch {
		b.WriteString("use axum::routing::{get, post};\n")
	} else {
		b.WriteString("use axum::routing::get;\n")
	}
	b.WriteString("use axum::{Json, Router};\n")
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		b.WriteString("use axum::extract::Query;\nuse serde::Deserialize;\n")
	}
	b.WriteString("\nuse crate::error::AppError;\nuse crate::state::AppState;\n")
	fmt.Fprintf(&b, "use crate::%s::dto::{Create%s, Update%s};\n", module, entity, entity)
	fmt.Fprintf(&b, "use crate::%s::model::%s;\n", module, entity)
	fmt.Fprintf(&b, "use crate::%s::service;\n\n", module)

	fmt.Fprintf(&b, "pub fn router() -> Router<AppState> {\n    Router::new()\n        .route(\"/api/%s\", get(list).post(create))\n", route)
	if batch {
		fmt.Fprintf(&b, "        .route(\"/api/%s/batch\", post(create_batch))\n", route)
	}
	fmt.Fprintf(&b, "        .route(\"/api/%s/{id}\", get(get_one).put(update).delete(delete_one))\n}\n\n", route)
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		fmt.Fprintf(&b, `#[derive(Debug, Deserialize)]
pub struct PageParams {
    #[serde(default = "default_limit")]
    pub limit: i64,
    #[serde(default)]
    pub offset: i64,
}

fn default_limit() -> i64 {
    20
}

async fn list(
    State(state): State<AppState>,
    Query(page): Query<PageParams>,
) -> Result<Json<Vec<%s>>, AppError> {
    service::list(&state.pool, page.limit, page.offset).await.map(Json)
}

`, entity)
	} else {
		fmt.Fprintf(&b, `async fn list(State(state): State<AppState>) -> Result<Json<Vec<%s>>, AppError> {
    service::list(&state.pool).await.map(Json)
}

`, entity)
	}
	fmt.Fprintf(&b, `async fn get_one(
    State(state): State<AppState>,
    Path(id): Path<%s>,
) -> Result<Json<%s>, AppError> {
    service::get(&state.pool, id).await.map(Json)
}

async fn create(
    State(state): State<AppState>,
    Json(payload): Json<Create%s>,
) -> Result<(StatusCode, Json<%s>), AppError> {
    let row = service::create(&state.pool, payload).await?;
    Ok((StatusCode::CREATED, Json(row)))
}

`, pkTyp, entity, entity, entity)
	if batch {
		fmt.Fprintf(&b, `async fn create_batch(
    State(state): State<AppState>,
    Json(payloads): Json<Vec<Create%s>>,
) -> Result<(StatusCode, Json<Vec<%s>>), AppError> {
    let rows = service::create_batch(&state.pool, payloads).await?;
    Ok((StatusCode::CREATED, Json(rows)))
}

`, entity, entity)
	}
	fmt.Fprintf(&b, `async fn update(
    State(state): State<AppState>,
    Path(id): Path<%s>,
    Json(payload): Json<Update%s>,
) -> Result<Json<%s>, AppError> {
    service::update(&state.pool, id, payload).await.map(Json)
}

async fn delete_one(
    State(state): State<AppState>,
    Path(id): Path<%s>,
) -> Result<StatusCode, AppError> {
    service::delete(&state.pool, id).await?;
    Ok(StatusCode::NO_CONTENT)
}
`, pkTyp, entity, entity, pkTyp)
	return gen.File{
		Path:    modulePath(table) + "/handler.rs",
		Content: b.String(),
	}
}

// pkName returns the primary-key column name, defaulting to id.
func pkName(t *schema.Table) string {
	if pk := t.PrimaryKey(); pk != nil {
		return pk.Name
	}
	return "id"
}

// writableColumns are the columns the create payload carries: data columns
// plus foreign-key columns, in source order within each group.
func writableColumns(c *gen.Config, t *schema.Table) []*schema.Column {
	cols := dataColumns(c, t)
	for _, fk := range t.ForeignKeys {
		if col := t.Column(fk.Column); col != nil {
			cols = append(cols, col)
		}
	}
	return cols
}

type relModule struct {
	module string
	entity string
}

// inverseModules lists the modules whose models the repository's gated
// collection queries return, deduplicated in relationship order.
func inverseModules(ctx *gen.Context) []relModule {
	if !ctx.Config.FeatureEnabled(gen.FeatureOneToMany.Name) &&
		!ctx.Config.FeatureEnabled(gen.FeatureManyToMany.Name) {
		return nil
	}
	seen := map[string]struct{}{ctx.Table.ModuleName(): {}}
	var mods []relModule
	add := func(t *schema.Table) {
		if t == nil {
			return
		}
		if _, ok := seen[t.ModuleName()]; ok {
			return
		}
		seen[t.ModuleName()] = struct{}{}
		mods = append(mods, relModule{module: t.ModuleName(), entity: t.EntityName()})
	}
	if ctx.Config.FeatureEnabled(gen.FeatureOneToMany.Name) {
		for _, rel := range ctx.Inverse {
			add(ctx.Schema.Table(rel.TargetTable))
		}
	}
	if ctx.Config.FeatureEnabled(gen.FeatureManyToMany.Name) {
		for _, rel := range ctx.ManyToMany {
			add(rel.TargetTable)
		}
	}
	return mods
}
