package kotlin

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenProject generates the project scaffold shared by every module.
func (t *Target) GenProject(s *schema.Schema, c *gen.Config) []gen.File {
	pkgDir := pkgPath(c)
	files := []gen.File{
		{Path: "build.gradle.kts", Content: t.buildGradle(c)},
		{Path: "settings.gradle.kts", Content: fmt.Sprintf("rootProject.name = %q\n", c.ProjectName)},
		{Path: ".gitignore", Content: gitignore},
		{Path: ".env.example", Content: t.envExample(c)},
		{Path: "README.md", Content: t.readme(s, c)},
		{Path: "src/main/resources/application.yml", Content: t.applicationYAML(c)},
		{Path: fmt.Sprintf("%s/%s/%s.kt", srcRoot, pkgDir, appClassName(c)), Content: t.applicationClass(c)},
		{Path: fmt.Sprintf("%s/%s/common/NotFoundException.kt", srcRoot, pkgDir), Content: t.notFoundException(c)},
		{Path: fmt.Sprintf("%s/%s/common/GlobalExceptionHandler.kt", srcRoot, pkgDir), Content: t.exceptionHandler(c)},
	}
	if c.FeatureEnabled(gen.FeatureMigrations.Name) {
		files = append(files, gen.File{
			Path:    "src/main/resources/db/migration/V1__baseline.sql",
			Content: baselineSQL(s),
		})
	}
	return files
}

// baselineSQL is the reserved first migration: extensions and session
// settings only, the entity tables follow in V2 onwards.
func baselineSQL(s *schema.Schema) string {
	var b strings.Builder
	b.WriteString("-- Baseline. Entity tables are created by the migrations that follow.\n")
	for _, table := range s.Tables {
		for _, col := range table.Columns {
			if col.Type == schema.TypeUUID {
				b.WriteString("CREATE EXTENSION IF NOT EXISTS pgcrypto;\n")
				return b.String()
			}
		}
	}
	return b.String()
}

// GenDocker generates the container build and compose files.
func (t *Target) GenDocker(s *schema.Schema, c *gen.Config) []gen.File {
	return []gen.File{
		{Path: "Dockerfile", Content: dockerfile},
		{Path: "docker-compose.yml", Content: t.compose(c)},
	}
}

// GenMigration generates one Flyway migration per entity table. Version 1
// is reserved for the baseline schema shipped with the project scaffold.
func (t *Target) GenMigration(ctx *gen.Context, version int) gen.File {
	table := ctx.Table
	c := ctx.Config
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", table.Name)
	var defs []string
	for _, col := range table.Columns {
		defs = append(defs, "    "+columnDDL(table, col))
	}
	// The auditing and softdelete features imply their columns even when
	// the source schema does not declare them.
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		if table.Column("created_at") == nil {
			defs = append(defs, "    created_at TIMESTAMPTZ NOT NULL DEFAULT now()")
		}
		if table.Column("updated_at") == nil {
			defs = append(defs, "    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()")
		}
	}
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) && table.Column("deleted_at") == nil {
		defs = append(defs, "    deleted_at TIMESTAMPTZ")
	}
	for _, fk := range table.ForeignKeys {
		defs = append(defs, fmt.Sprintf("    CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s)",
			table.Name, fk.Column, fk.Column, fk.RefTable, fk.RefColumn))
	}
	b.WriteString(strings.Join(defs, ",\n"))
	b.WriteString("\n);\n")
	// Junction tables ride along with the later of their two referenced
	// tables so their foreign keys always resolve.
	for _, junction := range gen.JunctionTablesReadyAt(table, ctx.Schema) {
		b.WriteString("\n")
		b.WriteString(junctionDDL(junction))
	}
	return gen.File{
		Path:    fmt.Sprintf("src/main/resources/db/migration/V%d__create_%s.sql", version, table.Name),
		Content: b.String(),
	}
}

func junctionDDL(table *schema.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", table.Name)
	var defs []string
	for _, col := range table.Columns {
		defs = append(defs, "    "+columnDDL(table, col))
	}
	for _, fk := range table.ForeignKeys {
		defs = append(defs, fmt.Sprintf("    CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s)",
			table.Name, fk.Column, fk.Column, fk.RefTable, fk.RefColumn))
	}
	if len(table.ForeignKeys) == 2 && table.PrimaryKey() == nil {
		defs = append(defs, fmt.Sprintf("    PRIMARY KEY (%s, %s)",
			table.ForeignKeys[0].Column, table.ForeignKeys[1].Column))
	}
	b.WriteString(strings.Join(defs, ",\n"))
	b.WriteString("\n);\n")
	return b.String()
}

func columnDDL(table *schema.Table, col *schema.Column) string {
	parts := []string{col.Name, sqlType(col)}
	if col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
		if col.Type == schema.TypeInt || col.Type == schema.TypeBigInt {
			parts[1] = "BIGSERIAL"
		}
	}
	if !col.Nullable && !col.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}
	if col.Unique && !col.PrimaryKey {
		parts = append(parts, "UNIQUE")
	}
	if col.Default != "" {
		parts = append(parts, "DEFAULT "+col.Default)
	}
	return strings.Join(parts, " ")
}

func sqlType(col *schema.Column) string {
	switch col.Type {
	case schema.TypeInt:
		return "INTEGER"
	case schema.TypeBigInt:
		return "BIGINT"
	case schema.TypeDecimal:
		return "NUMERIC(19, 2)"
	case schema.TypeFloat:
		return "DOUBLE PRECISION"
	case schema.TypeBool:
		return "BOOLEAN"
	case schema.TypeString:
		if col.Length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", col.Length)
		}
		return "VARCHAR(255)"
	case schema.TypeText:
		return "TEXT"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTime:
		return "TIME"
	case schema.TypeTimestamp:
		return "TIMESTAMPTZ"
	case schema.TypeUUID:
		return "UUID"
	case schema.TypeJSON:
		return "JSONB"
	case schema.TypeBytes:
		return "BYTEA"
	default:
		if col.RawType != "" {
			return strings.ToUpper(col.RawType)
		}
		return "TEXT"
	}
}

func (t *Target) buildGradle(c *gen.Config) string {
	var b strings.Builder
	b.WriteString(`plugins {
    kotlin("jvm") version "1.9.25"
    kotlin("plugin.spring") version "1.9.25"
    kotlin("plugin.jpa") version "1.9.25"
    id("org.springframework.boot") version "3.3.5"
    id("io.spring.dependency-management") version "1.1.6"
}

`)
	fmt.Fprintf(&b, "group = %q\nversion = \"0.0.1-SNAPSHOT\"\n\n", c.BasePackage)
	b.WriteString(`java {
    toolchain {
        languageVersion = JavaLanguageVersion.of(21)
    }
}

repositories {
    mavenCentral()
}

dependencies {
    implementation("org.springframework.boot:spring-boot-starter-web")
    implementation("com.fasterxml.jackson.module:jackson-module-kotlin")
    implementation("org.jetbrains.kotlin:kotlin-reflect")
`)
	if c.DatabaseEnabled() {
		b.WriteString(`    implementation("org.springframework.boot:spring-boot-starter-data-jpa")
    runtimeOnly("org.postgresql:postgresql")
`)
	}
	if c.FeatureEnabled(gen.FeatureMigrations.Name) {
		b.WriteString(`    implementation("org.flywaydb:flyway-core")
    implementation("org.flywaydb:flyway-database-postgresql")
`)
	}
	if c.FeatureEnabled(gen.FeatureJWTAuth.Name) || c.FeatureEnabled(gen.FeatureOAuth2.Name) {
		b.WriteString("    implementation(\"org.springframework.boot:spring-boot-starter-security\")\n")
	}
	if c.FeatureEnabled(gen.FeatureJWTAuth.Name) {
		b.WriteString(`    implementation("io.jsonwebtoken:jjwt-api:0.12.6")
    runtimeOnly("io.jsonwebtoken:jjwt-impl:0.12.6")
    runtimeOnly("io.jsonwebtoken:jjwt-jackson:0.12.6")
`)
	}
	if c.FeatureEnabled(gen.FeatureOAuth2.Name) || c.FeatureEnabled(gen.FeatureSocialLogin.Name) {
		b.WriteString("    implementation(\"org.springframework.boot:spring-boot-starter-oauth2-client\")\n")
	}
	if c.FeatureEnabled(gen.FeatureMailService.Name) {
		b.WriteString("    implementation(\"org.springframework.boot:spring-boot-starter-mail\")\n")
	}
	if c.FeatureEnabled(gen.FeatureS3Storage.Name) {
		b.WriteString("    implementation(\"software.amazon.awssdk:s3:2.29.9\")\n")
	}
	if c.FeatureEnabled(gen.FeatureOpenAPI.Name) {
		b.WriteString("    implementation(\"org.springdoc:springdoc-openapi-starter-webmvc-ui:2.6.0\")\n")
	}
	if c.FeatureEnabled(gen.FeatureHATEOAS.Name) {
		b.WriteString("    implementation(\"org.springframework.boot:spring-boot-starter-hateoas\")\n")
	}
	if c.FeatureEnabled(gen.FeatureRateLimiting.Name) {
		b.WriteString("    implementation(\"com.bucket4j:bucket4j-core:8.10.1\")\n")
	}
	if c.FeatureEnabled(gen.FeatureDevTools.Name) {
		b.WriteString("    developmentOnly(\"org.springframework.boot:spring-boot-devtools\")\n")
	}
	if c.FeatureEnabled(gen.FeatureUnitTests.Name) || c.FeatureEnabled(gen.FeatureIntegrationTests.Name) {
		b.WriteString(`    testImplementation("org.springframework.boot:spring-boot-starter-test")
    testImplementation("org.jetbrains.kotlin:kotlin-test-junit5")
    testImplementation("io.mockk:mockk:1.13.13")
`)
	}
	if c.FeatureEnabled(gen.FeatureIntegrationTests.Name) {
		b.WriteString(`    testImplementation("org.springframework.boot:spring-boot-testcontainers")
    testImplementation("org.testcontainers:junit-jupiter")
    testImplementation("org.testcontainers:postgresql")
`)
	}
	b.WriteString(`}

kotlin {
    compilerOptions {
        freeCompilerArgs.addAll("-Xjsr305=strict")
    }
}

tasks.withType<Test> {
    useJUnitPlatform()
}
`)
	return b.String()
}

func (t *Target) applicationYAML(c *gen.Config) string {
	var b strings.Builder
	b.WriteString("spring:\n")
	fmt.Fprintf(&b, "  application:\n    name: %s\n", c.ProjectName)
	if c.DatabaseEnabled() {
		fmt.Fprintf(&b, `  datasource:
    url: ${DATABASE_URL:jdbc:postgresql://localhost:5432/%s}
    username: ${DATABASE_USER:postgres}
    password: ${DATABASE_PASSWORD:postgres}
  jpa:
    hibernate:
      ddl-auto: validate
    open-in-view: false
`, snakeProject(c))
	}
	if c.FeatureEnabled(gen.FeatureMigrations.Name) {
		b.WriteString("  flyway:\n    enabled: true\n    locations: classpath:db/migration\n")
	}
	if c.FeatureEnabled(gen.FeatureMailService.Name) {
		b.WriteString(`  mail:
    host: ${MAIL_HOST:localhost}
    port: ${MAIL_PORT:1025}
    username: ${MAIL_USER:}
    password: ${MAIL_PASSWORD:}
`)
	}
	if c.FeatureEnabled(gen.FeatureFileUpload.Name) {
		max := c.ParamString("upload.max-size", "10MB")
		fmt.Fprintf(&b, "  servlet:\n    multipart:\n      max-file-size: ${MAX_UPLOAD_SIZE:%s}\n      max-request-size: ${MAX_UPLOAD_SIZE:%s}\n", max, max)
	}
	if c.FeatureEnabled(gen.FeatureOAuth2.Name) || c.FeatureEnabled(gen.FeatureSocialLogin.Name) {
		b.WriteString("  security:\n    oauth2:\n      client:\n        registration:\n")
		for _, p := range c.ParamStrings("auth/oauth2.providers", []string{"google"}) {
			env := strings.ToUpper(strings.ReplaceAll(p, "-", "_"))
			fmt.Fprintf(&b, "          %s:\n            client-id: ${%s_CLIENT_ID:}\n            client-secret: ${%s_CLIENT_SECRET:}\n", p, env, env)
		}
	}
	b.WriteString("\nserver:\n  port: ${SERVER_PORT:8080}\n")
	if c.FeatureEnabled(gen.FeatureJWTAuth.Name) {
		fmt.Fprintf(&b, "\nsecurity:\n  jwt:\n    secret: ${JWT_SECRET:change-me}\n    expiration-seconds: ${JWT_EXPIRATION:%d}\n",
			60*c.ParamInt("auth/jwt.expiration-minutes", 60))
	}
	return b.String()
}

func (t *Target) applicationClass(c *gen.Config) string {
	name := appClassName(c)
	return fmt.Sprintf(`package %s

import org.springframework.boot.autoconfigure.SpringBootApplication
import org.springframework.boot.runApplication

@SpringBootApplication
class %s

fun main(args: Array<String>) {
    runApplication<%s>(*args)
}
`, c.BasePackage, name, name)
}

func (t *Target) notFoundException(c *gen.Config) string {
	return fmt.Sprintf(`package %s.common

class NotFoundException(entity: String, id: Any) :
    RuntimeException("$entity with id $id was not found")
`, c.BasePackage)
}

func (t *Target) exceptionHandler(c *gen.Config) string {
	return fmt.Sprintf(`package %s.common

import org.springframework.http.HttpStatus
import org.springframework.http.ResponseEntity
import org.springframework.web.bind.annotation.ExceptionHandler
import org.springframework.web.bind.annotation.RestControllerAdvice

data class ApiError(val status: Int, val message: String?)

@RestControllerAdvice
class GlobalExceptionHandler {

    @ExceptionHandler(NotFoundException::class)
    fun handleNotFound(ex: NotFoundException): ResponseEntity<ApiError> =
        ResponseEntity.status(HttpStatus.NOT_FOUND)
            .body(ApiError(HttpStatus.NOT_FOUND.value(), ex.message))

    @ExceptionHandler(IllegalArgumentException::class)
    fun handleBadRequest(ex: IllegalArgumentException): ResponseEntity<ApiError> =
        ResponseEntity.status(HttpStatus.BAD_REQUEST)
            .body(ApiError(HttpStatus.BAD_REQUEST.value(), ex.message))
}
`, c.BasePackage)
}

func (t *Target) envExample(c *gen.Config) string {
	var b strings.Builder
	b.WriteString("SERVER_PORT=8080\n")
	if c.DatabaseEnabled() {
		fmt.Fprintf(&b, "DATABASE_URL=jdbc:postgresql://localhost:5432/%s\n", snakeProject(c))
		b.WriteString("DATABASE_USER=postgres\nDATABASE_PASSWORD=postgres\n")
	}
	if c.FeatureEnabled(gen.FeatureJWTAuth.Name) {
		fmt.Fprintf(&b, "JWT_SECRET=change-me\nJWT_EXPIRATION=%d\n", 60*c.ParamInt("auth/jwt.expiration-minutes", 60))
	}
	if c.FeatureEnabled(gen.FeatureMailService.Name) {
		b.WriteString("MAIL_HOST=localhost\nMAIL_PORT=1025\nMAIL_USER=\nMAIL_PASSWORD=\n")
	}
	if c.FeatureEnabled(gen.FeatureS3Storage.Name) {
		b.WriteString("AWS_REGION=us-east-1\nS3_BUCKET=uploads\n")
	}
	return b.String()
}

func (t *Target) readme(s *schema.Schema, c *gen.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nKotlin / Spring Boot service generated from the %s schema.\n\n## Modules\n\n",
		c.ProjectName, s.Name)
	for _, table := range s.EntityTables() {
		fmt.Fprintf(&b, "- **%s** (`/api/%s`)\n", table.EntityName(), strings.ReplaceAll(table.Name, "_", "-"))
	}
	b.WriteString(`
## Running

` + "```sh" + `
./gradlew bootRun
` + "```" + `
`)
	if c.FeatureEnabled(gen.FeatureDocker.Name) {
		b.WriteString("\nOr with Docker:\n\n```sh\ndocker compose up --build\n```\n")
	}
	return b.String()
}

func (t *Target) compose(c *gen.Config) string {
	var b strings.Builder
	b.WriteString(`services:
  app:
    build: .
    ports:
      - "8080:8080"
`)
	if c.DatabaseEnabled() {
		fmt.Fprintf(&b, `    environment:
      DATABASE_URL: jdbc:postgresql://db:5432/%s
      DATABASE_USER: postgres
      DATABASE_PASSWORD: postgres
    depends_on:
      db:
        condition: service_healthy

  db:
    image: postgres:16-alpine
    environment:
      POSTGRES_DB: %s
      POSTGRES_USER: postgres
      POSTGRES_PASSWORD: postgres
    healthcheck:
      test: ["CMD-SHELL", "pg_isready -U postgres"]
      interval: 5s
      timeout: 5s
      retries: 5
    volumes:
      - pgdata:/var/lib/postgresql/data

volumes:
  pgdata:
`, snakeProject(c), snakeProject(c))
	}
	return b.String()
}

func snakeProject(c *gen.Config) string {
	return strings.ReplaceAll(schema.Snake(c.ProjectName), "-", "_")
}

const gitignore = `.gradle/
build/
out/
.idea/
*.iml
.env
`

const dockerfile = `FROM gradle:8.10-jdk21 AS build
WORKDIR /app
COPY . .
RUN gradle bootJar --no-daemon

FROM eclipse-temurin:21-jre-alpine
WORKDIR /app
COPY --from=build /app/build/libs/*.jar app.jar
EXPOSE 8080
ENTRYPOINT ["java", "-jar", "app.jar"]
`
