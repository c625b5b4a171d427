package gogin

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenRepository generates the pgx query layer for one table.
func (t *Target) GenRepository(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkCol  = pkName(table)
		pkTyp  = t.pkType(table)
		cols   = writableColumns(c, table)
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", module)
	b.WriteString("import (\n\t\"context\"\n\t\"errors\"\n\n\t\"github.com/jackc/pgx/v5\"\n\t\"github.com/jackc/pgx/v5/pgxpool\"\n)\n\n")
	fmt.Fprintf(&b, "// ErrNotFound is returned when no row matches the requested id.\nvar ErrNotFound = errors.New(\"%s not found\")\n\n", table.VarName())
	fmt.Fprintf(&b, "// Repository runs the %s queries.\ntype Repository struct {\n\tpool *pgxpool.Pool\n}\n\n", table.Name)
	b.WriteString("// NewRepository creates the repository on the given pool.\nfunc NewRepository(pool *pgxpool.Pool) *Repository {\n\treturn &Repository{pool: pool}\n}\n\n")

	liveFilter, liveClause := "", ""
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		liveFilter = " WHERE deleted_at IS NULL"
		liveClause = " AND deleted_at IS NULL"
	}
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		fmt.Fprintf(&b, `func (r *Repository) List(ctx context.Context, limit, offset int64) ([]%s, error) {
	rows, err := r.pool.Query(ctx, "SELECT * FROM %s%s ORDER BY %s LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[%s])
}

`, entity, table.Name, liveFilter, pkCol, entity)
	} else {
		fmt.Fprintf(&b, `func (r *Repository) List(ctx context.Context) ([]%s, error) {
	rows, err := r.pool.Query(ctx, "SELECT * FROM %s%s ORDER BY %s")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[%s])
}

`, entity, table.Name, liveFilter, pkCol, entity)
	}
	fmt.Fprintf(&b, `func (r *Repository) Get(ctx context.Context, id %s) (*%s, error) {
	rows, err := r.pool.Query(ctx, "SELECT * FROM %s WHERE %s = $1%s", id)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[%s])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

`, pkTyp, entity, table.Name, pkCol, liveClause, entity)

	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = "req." + schema.Pascal(col.Name)
	}
	fmt.Fprintf(&b, `func (r *Repository) Insert(ctx context.Context, req *CreateRequest) (*%s, error) {
	rows, err := r.pool.Query(ctx,
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		%s)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[%s])
	if err != nil {
		return nil, err
	}
	return &row, nil
}

`, entity, table.Name, strings.Join(names, ", "), strings.Join(placeholders, ", "), strings.Join(args, ", "), entity)

	sets := make([]string, len(cols))
	updArgs := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col.Name, i+1)
		updArgs[i] = "m." + schema.Pascal(col.Name)
	}
	updArgs = append(updArgs, "m."+schema.Pascal(pkCol))
	fmt.Fprintf(&b, `func (r *Repository) Update(ctx context.Context, m *%s) (*%s, error) {
	rows, err := r.pool.Query(ctx,
		"UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		%s)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[%s])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

`, entity, entity, table.Name, strings.Join(sets, ", "), pkCol, len(cols)+1, strings.Join(updArgs, ", "), entity)

	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table.Name, pkCol)
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		deleteSQL = fmt.Sprintf("UPDATE %s SET deleted_at = now() WHERE %s = $1", table.Name, pkCol)
	}
	fmt.Fprintf(&b, `func (r *Repository) Delete(ctx context.Context, id %s) error {
	tag, err := r.pool.Exec(ctx, %q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
`, pkTyp, deleteSQL)

	// Collection queries return keys rather than sibling models: generated
	// packages stay acyclic even for symmetric many-to-many pairs.
	if c.FeatureEnabled(gen.FeatureOneToMany.Name) {
		for _, rel := range ctx.Inverse {
			target := ctx.Schema.Table(rel.TargetTable)
			if target == nil {
				continue
			}
			fn := schema.Pascal(schema.Singular(target.Name)) + "IDs"
			fmt.Fprintf(&b, `
// %s lists the ids of the %s referencing this %s.
func (r *Repository) %s(ctx context.Context, id %s) ([]%s, error) {
	rows, err := r.pool.Query(ctx, "SELECT %s FROM %s WHERE %s = $1 ORDER BY %s", id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[%s])
}
`, fn, target.Name, table.VarName(), fn, pkTyp, t.pkType(target),
				pkName(target), target.Name, rel.ForeignKey.Column, pkName(target), t.pkType(target))
		}
	}
	if c.FeatureEnabled(gen.FeatureManyToMany.Name) {
		for _, rel := range ctx.ManyToMany {
			target := rel.TargetTable
			fn := schema.Pascal(schema.Singular(target.Name)) + "IDs"
			fmt.Fprintf(&b, `
// %s lists the ids of the %s associated through %s.
func (r *Repository) %s(ctx context.Context, id %s) ([]%s, error) {
	rows, err := r.pool.Query(ctx, "SELECT %s FROM %s WHERE %s = $1 ORDER BY %s", id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[%s])
}
`, fn, target.Name, rel.JunctionTable, fn, pkTyp, t.pkType(target),
				rel.TargetColumn, rel.JunctionTable, rel.SourceColumn, rel.TargetColumn, t.pkType(target))
		}
	}
	path := modulePath(table) + "/repository.go"
	return gen.File{Path: path, Content: format(path, b.String())}
}

// GenService generates the service layer for one table.
func (t *Target) GenService(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		module = table.ModuleName()
		pkTyp  = t.pkType(table)
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", module)
	b.WriteString("import (\n\t\"context\"\n)\n\n")
	fmt.Fprintf(&b, "// Service wraps the %s business operations.\ntype Service struct {\n\trepo *Repository\n}\n\n", table.Name)
	b.WriteString("// NewService creates the service over the given repository.\nfunc NewService(repo *Repository) *Service {\n\treturn &Service{repo: repo}\n}\n\n")
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		fmt.Fprintf(&b, `func (s *Service) List(ctx context.Context, limit, offset int64) ([]Response, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(rows))
	for i := range rows {
		out = append(out, ToResponse(&rows[i]))
	}
	return out, nil
}

`)
	} else {
		fmt.Fprintf(&b, `func (s *Service) List(ctx context.Context) ([]Response, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(rows))
	for i := range rows {
		out = append(out, ToResponse(&rows[i]))
	}
	return out, nil
}

`)
	}
	fmt.Fprintf(&b, `func (s *Service) Get(ctx context.Context, id %s) (Response, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return ToResponse(m), nil
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (Response, error) {
	m, err := s.repo.Insert(ctx, req)
	if err != nil {
		return Response{}, err
	}
	return ToResponse(m), nil
}

func (s *Service) Update(ctx context.Context, id %s, req *UpdateRequest) (Response, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return Response{}, err
	}
	ApplyUpdate(m, req)
	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		return Response{}, err
	}
	return ToResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id %s) error {
	return s.repo.Delete(ctx, id)
}
`, pkTyp, pkTyp, pkTyp)
	path := modulePath(table) + "/service.go"
	return gen.File{Path: path, Content: format(path, b.String())}
}

// GenController generates the Gin handlers and route registration.
func (t *Target) GenController(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		module = table.ModuleName()
		pkTyp  = t.pkType(table)
		route  = strings.ReplaceAll(table.Name, "_", "-")
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", module)
	b.WriteString("import (\n\t\"errors\"\n\t\"net/http\"\n\t\"strconv\"\n\n\t\"github.com/gin-gonic/gin\"\n")
	if pkTyp == "uuid.UUID" {
		b.WriteString("\t\"github.com/google/uuid\"\n")
	}
	b.WriteString(")\n\n")
	fmt.Fprintf(&b, "// Handler exposes the %s endpoints.\ntype Handler struct {\n\tsvc *Service\n}\n\n", table.Name)
	b.WriteString("// NewHandler creates the handler over the given service.\nfunc NewHandler(svc *Service) *Handler {\n\treturn &Handler{svc: svc}\n}\n\n")
	fmt.Fprintf(&b, `// Register mounts the routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	g := r.Group("/%s")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
`, route)
	if c.FeatureEnabled(gen.FeatureBatchOperations.Name) {
		b.WriteString("\tg.POST(\"/batch\", h.createBatch)\n")
	}
	b.WriteString("}\n\n")

	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		b.WriteString(`func (h *Handler) list(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}
	offset, err := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if err != nil || offset < 0 {
		offset = 0
	}
	out, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

`)
	} else {
		b.WriteString(`func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

`)
	}
	b.WriteString(idParser(pkTyp))
	b.WriteString(`func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.svc.Update(c.Request.Context(), id, &req)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.svc.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
`)
	if c.FeatureEnabled(gen.FeatureBatchOperations.Name) {
		b.WriteString(`
func (h *Handler) createBatch(c *gin.Context) {
	var reqs []CreateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out := make([]Response, 0, len(reqs))
	for i := range reqs {
		created, err := h.svc.Create(c.Request.Context(), &reqs[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		out = append(out, created)
	}
	c.JSON(http.StatusCreated, out)
}
`)
	}
	path := modulePath(table) + "/handler.go"
	return gen.File{Path: path, Content: format(path, b.String())}
}

// idParser renders the path-parameter parser for the table's key type.
func idParser(pkTyp string) string {
	switch pkTyp {
	case "uuid.UUID":
		return `func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

`
	case "int32":
		return `func parseID(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return int32(id), true
}

`
	default:
		return `func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

`
	}
}

// pkName returns the primary-key column name, defaulting to id.
func pkName(t *schema.Table) string {
	if pk := t.PrimaryKey(); pk != nil {
		return pk.Name
	}
	return "id"
}
