package kotlin

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
)

// GenRepository generates the Spring Data repository for one table.
func (t *Target) GenRepository(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkType = t.pkType(ctx)
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.repository\n\n", c.BasePackage, module)
	fmt.Fprintf(&b, "import %s.%s.domain.entity.%s\n", c.BasePackage, module, entity)
	b.WriteString("import org.springframework.data.jpa.repository.JpaRepository\n")
	if c.FeatureEnabled(gen.FeatureFiltering.Name) {
		b.WriteString("import org.springframework.data.jpa.repository.JpaSpecificationExecutor\n")
	}
	b.WriteString("import org.springframework.stereotype.Repository\n")
	if pkType == "UUID" {
		b.WriteString("import java.util.UUID\n")
	}
	b.WriteString("\n")
	b.WriteString("@Repository\n")
	fmt.Fprintf(&b, "interface %sRepository : JpaRepository<%s, %s>", entity, entity, pkType)
	if c.FeatureEnabled(gen.FeatureFiltering.Name) {
		fmt.Fprintf(&b, ", JpaSpecificationExecutor<%s>", entity)
	}
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		b.WriteString(" {\n\n    fun findAllByDeletedAtIsNull(): List<" + entity + ">\n}")
	}
	b.WriteString("\n")
	return gen.File{
		Path:    fmt.Sprintf("%s/repository/%sRepository.kt", modulePath(c, table), entity),
		Content: b.String(),
	}
}

// GenService generates the transactional service for one table.
func (t *Target) GenService(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkType = t.pkType(ctx)
		varN   = table.VarName()
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.service\n\n", c.BasePackage, module)
	fmt.Fprintf(&b, "import %s.common.NotFoundException\n", c.BasePackage)
	fmt.Fprintf(&b, "import %s.%s.domain.dto.%sRequest\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "import %s.%s.domain.dto.%sResponse\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "import %s.%s.domain.mapper.%sMapper\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "import %s.%s.repository.%sRepository\n", c.BasePackage, module, entity)
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		b.WriteString("import org.springframework.data.domain.Page\n")
		b.WriteString("import org.springframework.data.domain.Pageable\n")
	}
	b.WriteString("import org.springframework.stereotype.Service\n")
	b.WriteString("import org.springframework.transaction.annotation.Transactional\n")
	if pkType == "UUID" {
		b.WriteString("import java.util.UUID\n")
	}
	b.WriteString("\n")

	b.WriteString("@Service\n@Transactional\n")
	fmt.Fprintf(&b, "class %sService(\n    private val repository: %sRepository,\n) {\n\n", entity, entity)
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		fmt.Fprintf(&b, "    @Transactional(readOnly = true)\n    fun findAll(pageable: Pageable): Page<%sResponse> =\n        repository.findAll(pageable).map(%sMapper::toResponse)\n\n", entity, entity)
	} else {
		fmt.Fprintf(&b, "    @Transactional(readOnly = true)\n    fun findAll(): List<%sResponse> =\n        repository.findAll().map(%sMapper::toResponse)\n\n", entity, entity)
	}
	fmt.Fprintf(&b, "    @Transactional(readOnly = true)\n    fun findById(id: %s): %sResponse =\n        %sMapper.toResponse(get(id))\n\n", pkType, entity, entity)
	fmt.Fprintf(&b, "    fun create(request: %sRequest): %sResponse {\n        val %s = %sMapper.toEntity(request)\n        return %sMapper.toResponse(repository.save(%s))\n    }\n\n",
		entity, entity, varN, entity, entity, varN)
	fmt.Fprintf(&b, "    fun update(id: %s, request: %sRequest): %sResponse {\n        val %s = get(id)\n", pkType, entity, entity, varN)
	for _, col := range dataColumns(c, table) {
		fmt.Fprintf(&b, "        %s.%s = request.%s\n", varN, col.FieldName(), col.FieldName())
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		fmt.Fprintf(&b, "        %s.updatedAt = java.time.Instant.now()\n", varN)
	}
	fmt.Fprintf(&b, "        return %sMapper.toResponse(repository.save(%s))\n    }\n\n", entity, varN)
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		fmt.Fprintf(&b, "    fun delete(id: %s) {\n        val %s = get(id)\n        %s.deletedAt = java.time.Instant.now()\n        repository.save(%s)\n    }\n\n", pkType, varN, varN, varN)
	} else {
		fmt.Fprintf(&b, "    fun delete(id: %s) {\n        repository.delete(get(id))\n    }\n\n", pkType)
	}
	if c.FeatureEnabled(gen.FeatureBatchOperations.Name) {
		fmt.Fprintf(&b, "    fun createAll(requests: List<%sRequest>): List<%sResponse> =\n        repository.saveAll(requests.map(%sMapper::toEntity)).map(%sMapper::toResponse)\n\n",
			entity, entity, entity, entity)
	}
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		fmt.Fprintf(&b, "    private fun get(id: %s) = repository.findById(id)\n        .filter { it.deletedAt == null }\n        .orElseThrow { NotFoundException(%q, id) }\n}\n",
			pkType, entity)
	} else {
		fmt.Fprintf(&b, "    private fun get(id: %s) = repository.findById(id)\n        .orElseThrow { NotFoundException(%q, id) }\n}\n",
			pkType, entity)
	}
	return gen.File{
		Path:    fmt.Sprintf("%s/service/%sService.kt", modulePath(c, table), entity),
		Content: b.String(),
	}
}

// GenController generates the REST controller for one table.
func (t *Target) GenController(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkType = t.pkType(ctx)
		route  = strings.ReplaceAll(table.Name, "_", "-")
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.web\n\n", c.BasePackage, module)
	fmt.Fprintf(&b, "import %s.%s.domain.dto.%sRequest\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "import %s.%s.domain.dto.%sResponse\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "import %s.%s.service.%sService\n", c.BasePackage, module, entity)
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		b.WriteString("import org.springframework.data.domain.Page\n")
		b.WriteString("import org.springframework.data.domain.Pageable\n")
	}
	b.WriteString("import org.springframework.http.HttpStatus\n")
	b.WriteString("import org.springframework.web.bind.annotation.*\n")
	if pkType == "UUID" {
		b.WriteString("import java.util.UUID\n")
	}
	b.WriteString("\n")
	b.WriteString("@RestController\n")
	fmt.Fprintf(&b, "@RequestMapping(\"/api/%s\")\n", route)
	fmt.Fprintf(&b, "class %sController(\n    private val service: %sService,\n) {\n\n", entity, entity)
	if c.FeatureEnabled(gen.FeaturePagination.Name) {
		fmt.Fprintf(&b, "    @GetMapping\n    fun findAll(pageable: Pageable): Page<%sResponse> = service.findAll(pageable)\n\n", entity)
	} else {
		fmt.Fprintf(&b, "    @GetMapping\n    fun findAll(): List<%sResponse> = service.findAll()\n\n", entity)
	}
	fmt.Fprintf(&b, "    @GetMapping(\"/{id}\")\n    fun findById(@PathVariable id: %s): %sResponse = service.findById(id)\n\n", pkType, entity)
	fmt.Fprintf(&b, "    @PostMapping\n    @ResponseStatus(HttpStatus.CREATED)\n    fun create(@RequestBody request: %sRequest): %sResponse = service.create(request)\n\n", entity, entity)
	fmt.Fprintf(&b, "    @PutMapping(\"/{id}\")\n    fun update(@PathVariable id: %s, @RequestBody request: %sRequest): %sResponse =\n        service.update(id, request)\n\n", pkType, entity, entity)
	fmt.Fprintf(&b, "    @DeleteMapping(\"/{id}\")\n    @ResponseStatus(HttpStatus.NO_CONTENT)\n    fun delete(@PathVariable id: %s) = service.delete(id)\n", pkType)
	if c.FeatureEnabled(gen.FeatureBatchOperations.Name) {
		fmt.Fprintf(&b, "\n    @PostMapping(\"/batch\")\n    @ResponseStatus(HttpStatus.CREATED)\n    fun createAll(@RequestBody requests: List<%sRequest>): List<%sResponse> =\n        service.createAll(requests)\n", entity, entity)
	}
	b.WriteString("}\n")
	return gen.File{
		Path:    fmt.Sprintf("%s/web/%sController.kt", modulePath(c, table), entity),
		Content: b.String(),
	}
}

// pkType resolves the primary-key type used across the table's artifacts.
func (t *Target) pkType(ctx *gen.Context) string {
	if pk := ctx.Table.PrimaryKey(); pk != nil {
		return t.mapper.MapColumnType(pk)
	}
	return t.mapper.PrimaryKeyType()
}
