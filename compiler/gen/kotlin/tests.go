package kotlin

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
)

// GenUnitTest generates the mockk-based service test for one table.
func (t *Target) GenUnitTest(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		pkType = t.pkType(ctx)
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.service\n\n", c.BasePackage, module)
	fmt.Fprintf(&b, "import %s.common.NotFoundException\n", c.BasePackage)
	fmt.Fprintf(&b, "import %s.%s.repository.%sRepository\n", c.BasePackage, module, entity)
	b.WriteString(`import io.mockk.every
import io.mockk.mockk
import org.junit.jupiter.api.Test
import org.junit.jupiter.api.assertThrows
import java.util.Optional
`)
	if pkType == "UUID" {
		b.WriteString("import java.util.UUID\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "class %sServiceTest {\n\n", entity)
	fmt.Fprintf(&b, "    private val repository = mockk<%sRepository>()\n", entity)
	fmt.Fprintf(&b, "    private val service = %sService(repository)\n\n", entity)
	b.WriteString("    @Test\n    fun `findById throws when the id is unknown`() {\n")
	fmt.Fprintf(&b, "        val id = %s\n", missingID(pkType))
	b.WriteString("        every { repository.findById(id) } returns Optional.empty()\n\n")
	b.WriteString("        assertThrows<NotFoundException> { service.findById(id) }\n    }\n\n")
	b.WriteString("    @Test\n    fun `delete throws when the id is unknown`() {\n")
	fmt.Fprintf(&b, "        val id = %s\n", missingID(pkType))
	b.WriteString("        every { repository.findById(id) } returns Optional.empty()\n\n")
	b.WriteString("        assertThrows<NotFoundException> { service.delete(id) }\n    }\n}\n")
	return gen.File{
		Path:    fmt.Sprintf("%s/service/%sServiceTest.kt", testModulePath(c, table), entity),
		Content: b.String(),
	}
}

// GenIntegrationTest generates the Testcontainers-backed controller test
// for one table.
func (t *Target) GenIntegrationTest(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
		route  = strings.ReplaceAll(table.Name, "_", "-")
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.web\n\n", c.BasePackage, module)
	b.WriteString(`import org.junit.jupiter.api.Test
import org.springframework.beans.factory.annotation.Autowired
import org.springframework.boot.test.autoconfigure.web.servlet.AutoConfigureMockMvc
import org.springframework.boot.test.context.SpringBootTest
import org.springframework.boot.testcontainers.service.connection.ServiceConnection
import org.springframework.test.web.servlet.MockMvc
import org.springframework.test.web.servlet.request.MockMvcRequestBuilders.get
import org.springframework.test.web.servlet.result.MockMvcResultMatchers.status
import org.testcontainers.containers.PostgreSQLContainer
import org.testcontainers.junit.jupiter.Container
import org.testcontainers.junit.jupiter.Testcontainers

@SpringBootTest
@AutoConfigureMockMvc
@Testcontainers
`)
	fmt.Fprintf(&b, "class %sControllerIT {\n\n", entity)
	b.WriteString(`    companion object {
        @Container
        @ServiceConnection
        val postgres = PostgreSQLContainer("postgres:16-alpine")
    }

    @Autowired
    lateinit var mockMvc: MockMvc

    @Test
`)
	fmt.Fprintf(&b, "    fun `lists %s`() {\n", table.Name)
	fmt.Fprintf(&b, "        mockMvc.perform(get(\"/api/%s\"))\n            .andExpect(status().isOk)\n    }\n", route)
	b.WriteString("}\n")
	return gen.File{
		Path:    fmt.Sprintf("%s/web/%sControllerIT.kt", testModulePath(c, table), entity),
		Content: b.String(),
	}
}

// missingID returns a Kotlin literal for an id no row will ever have.
func missingID(pkType string) string {
	switch pkType {
	case "UUID":
		return "UUID.randomUUID()"
	case "Int":
		return "404"
	case "String":
		return "\"missing\""
	default:
		return "404L"
	}
}
