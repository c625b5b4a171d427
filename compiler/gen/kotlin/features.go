package kotlin

import (
	"fmt"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/compiler/gen/seed"
	"github.com/apiforge/forge/schema"
)

// GenFeaturePacks generates the cross-cutting feature files that are not
// bound to a single table: security configuration, mail, upload, API docs,
// rate limiting and seed data.
func (t *Target) GenFeaturePacks(s *schema.Schema, c *gen.Config) []gen.File {
	var files []gen.File
	add := func(rel, content string) {
		files = append(files, gen.File{
			Path:    fmt.Sprintf("%s/%s/%s", srcRoot, pkgPath(c), rel),
			Content: content,
		})
	}
	if c.FeatureEnabled(gen.FeatureJWTAuth.Name) {
		add("security/SecurityConfig.kt", t.securityConfig(c))
		add("security/JwtService.kt", t.jwtService(c))
		add("security/JwtAuthFilter.kt", t.jwtFilter(c))
	}
	if c.FeatureEnabled(gen.FeatureSocialLogin.Name) || c.FeatureEnabled(gen.FeatureOAuth2.Name) {
		add("security/OAuth2LoginConfig.kt", t.oauthConfig(c))
	}
	if c.FeatureEnabled(gen.FeatureMailService.Name) {
		add("mail/MailService.kt", t.mailService(c))
	}
	if c.FeatureEnabled(gen.FeaturePasswordReset.Name) {
		add("mail/PasswordResetService.kt", t.passwordReset(c))
	}
	if c.FeatureEnabled(gen.FeatureFileUpload.Name) {
		add("upload/FileStorageService.kt", t.fileStorage(c))
		add("upload/UploadController.kt", t.uploadController(c))
	}
	if c.FeatureEnabled(gen.FeatureS3Storage.Name) {
		add("upload/S3StorageService.kt", t.s3Storage(c))
	}
	if c.FeatureEnabled(gen.FeatureOpenAPI.Name) {
		add("config/OpenApiConfig.kt", t.openAPIConfig(c))
	}
	if c.FeatureEnabled(gen.FeatureRateLimiting.Name) {
		add("config/RateLimitFilter.kt", t.rateLimitFilter(c))
	}
	if c.FeatureEnabled(gen.FeatureETagCaching.Name) {
		add("config/EtagConfig.kt", t.etagConfig(c))
	}
	if c.FeatureEnabled(gen.FeatureSeedData.Name) {
		files = append(files, gen.File{
			Path:    "src/main/resources/db/seed/seed.sql",
			Content: seed.SQL(s, c),
		})
	}
	return files
}

func (t *Target) securityConfig(c *gen.Config) string {
	return fmt.Sprintf(`package %s.security

import org.springframework.context.annotation.Bean
import org.springframework.context.annotation.Configuration
import org.springframework.security.config.annotation.web.builders.HttpSecurity
import org.springframework.security.config.annotation.web.configuration.EnableWebSecurity
import org.springframework.security.config.http.SessionCreationPolicy
import org.springframework.security.crypto.bcrypt.BCryptPasswordEncoder
import org.springframework.security.crypto.password.PasswordEncoder
import org.springframework.security.web.SecurityFilterChain
import org.springframework.security.web.authentication.UsernamePasswordAuthenticationFilter

@Configuration
@EnableWebSecurity
class SecurityConfig(
    private val jwtAuthFilter: JwtAuthFilter,
) {

    @Bean
    fun filterChain(http: HttpSecurity): SecurityFilterChain {
        http
            .csrf { it.disable() }
            .sessionManagement { it.sessionCreationPolicy(SessionCreationPolicy.STATELESS) }
            .authorizeHttpRequests {
                it.requestMatchers("/api/auth/**").permitAll()
                it.anyRequest().authenticated()
            }
            .addFilterBefore(jwtAuthFilter, UsernamePasswordAuthenticationFilter::class.java)
        return http.build()
    }

    @Bean
    fun passwordEncoder(): PasswordEncoder = BCryptPasswordEncoder()
}
`, c.BasePackage)
}

func (t *Target) jwtService(c *gen.Config) string {
	return fmt.Sprintf(`package %s.security

import io.jsonwebtoken.Jwts
import io.jsonwebtoken.security.Keys
import org.springframework.beans.factory.annotation.Value
import org.springframework.stereotype.Service
import java.time.Instant
import java.util.Date
import javax.crypto.SecretKey

@Service
class JwtService(
    @Value("\${security.jwt.secret}") secret: String,
    @Value("\${security.jwt.expiration-seconds}") private val expirationSeconds: Long,
) {
    private val key: SecretKey = Keys.hmacShaKeyFor(secret.toByteArray())

    fun issue(subject: String): String {
        val now = Instant.now()
        return Jwts.builder()
            .subject(subject)
            .issuedAt(Date.from(now))
            .expiration(Date.from(now.plusSeconds(expirationSeconds)))
            .signWith(key)
            .compact()
    }

    fun subjectOf(token: String): String? = runCatching {
        Jwts.parser().verifyWith(key).build()
            .parseSignedClaims(token).payload.subject
    }.getOrNull()
}
`, c.BasePackage)
}

func (t *Target) jwtFilter(c *gen.Config) string {
	return fmt.Sprintf(`package %s.security

import jakarta.servlet.FilterChain
import jakarta.servlet.http.HttpServletRequest
import jakarta.servlet.http.HttpServletResponse
import org.springframework.security.authentication.UsernamePasswordAuthenticationToken
import org.springframework.security.core.context.SecurityContextHolder
import org.springframework.stereotype.Component
import org.springframework.web.filter.OncePerRequestFilter

@Component
class JwtAuthFilter(
    private val jwtService: JwtService,
) : OncePerRequestFilter() {

    override fun doFilterInternal(
        request: HttpServletRequest,
        response: HttpServletResponse,
        filterChain: FilterChain,
    ) {
        val header = request.getHeader("Authorization")
        if (header != null && header.startsWith("Bearer ")) {
            val subject = jwtService.subjectOf(header.removePrefix("Bearer "))
            if (subject != null && SecurityContextHolder.getContext().authentication == null) {
                val auth = UsernamePasswordAuthenticationToken(subject, null, emptyList())
                SecurityContextHolder.getContext().authentication = auth
            }
        }
        filterChain.doFilter(request, response)
    }
}
`, c.BasePackage)
}

func (t *Target) oauthConfig(c *gen.Config) string {
	return fmt.Sprintf(`package %s.security

import org.springframework.context.annotation.Bean
import org.springframework.context.annotation.Configuration
import org.springframework.security.config.annotation.web.builders.HttpSecurity
import org.springframework.security.web.SecurityFilterChain

@Configuration
class OAuth2LoginConfig {

    @Bean
    fun oauth2FilterChain(http: HttpSecurity): SecurityFilterChain {
        http
            .securityMatcher("/oauth2/**", "/login/**")
            .oauth2Login { }
        return http.build()
    }
}
`, c.BasePackage)
}

func (t *Target) mailService(c *gen.Config) string {
	return fmt.Sprintf(`package %s.mail

import org.springframework.mail.SimpleMailMessage
import org.springframework.mail.javamail.JavaMailSender
import org.springframework.stereotype.Service

@Service
class MailService(
    private val mailSender: JavaMailSender,
) {
    fun send(to: String, subject: String, body: String) {
        val message = SimpleMailMessage()
        message.setTo(to)
        message.subject = subject
        message.text = body
        mailSender.send(message)
    }
}
`, c.BasePackage)
}

func (t *Target) passwordReset(c *gen.Config) string {
	return fmt.Sprintf(`package %s.mail

import org.springframework.stereotype.Service
import java.security.SecureRandom
import java.time.Duration
import java.time.Instant
import java.util.Base64
import java.util.concurrent.ConcurrentHashMap

@Service
class PasswordResetService(
    private val mailService: MailService,
) {
    private data class Token(val email: String, val expiresAt: Instant)

    private val random = SecureRandom()
    private val tokens = ConcurrentHashMap<String, Token>()

    fun requestReset(email: String) {
        val bytes = ByteArray(32)
        random.nextBytes(bytes)
        val token = Base64.getUrlEncoder().withoutPadding().encodeToString(bytes)
        tokens[token] = Token(email, Instant.now().plus(Duration.ofMinutes(30)))
        mailService.send(email, "Password reset", "Your reset token: $token")
    }

    fun consume(token: String): String? {
        val entry = tokens.remove(token) ?: return null
        if (entry.expiresAt.isBefore(Instant.now())) return null
        return entry.email
    }
}
`, c.BasePackage)
}

func (t *Target) fileStorage(c *gen.Config) string {
	return fmt.Sprintf(`package %s.upload

import org.springframework.beans.factory.annotation.Value
import org.springframework.stereotype.Service
import org.springframework.web.multipart.MultipartFile
import java.nio.file.Files
import java.nio.file.Path
import java.util.UUID

@Service
class FileStorageService(
    @Value("\${upload.dir:uploads}") uploadDir: String,
) {
    private val root: Path = Path.of(uploadDir)

    init {
        Files.createDirectories(root)
    }

    fun store(file: MultipartFile): String {
        val name = UUID.randomUUID().toString() + "-" + (file.originalFilename ?: "file")
        file.transferTo(root.resolve(name))
        return name
    }

    fun resolve(name: String): Path = root.resolve(name)
}
`, c.BasePackage)
}

func (t *Target) uploadController(c *gen.Config) string {
	return fmt.Sprintf(`package %s.upload

import org.springframework.http.HttpStatus
import org.springframework.web.bind.annotation.PostMapping
import org.springframework.web.bind.annotation.RequestMapping
import org.springframework.web.bind.annotation.RequestParam
import org.springframework.web.bind.annotation.ResponseStatus
import org.springframework.web.bind.annotation.RestController
import org.springframework.web.multipart.MultipartFile

@RestController
@RequestMapping("/api/uploads")
class UploadController(
    private val storage: FileStorageService,
) {
    @PostMapping
    @ResponseStatus(HttpStatus.CREATED)
    fun upload(@RequestParam("file") file: MultipartFile): Map<String, String> =
        mapOf("name" to storage.store(file))
}
`, c.BasePackage)
}

func (t *Target) s3Storage(c *gen.Config) string {
	return fmt.Sprintf(`package %s.upload

import org.springframework.beans.factory.annotation.Value
import org.springframework.stereotype.Service
import org.springframework.web.multipart.MultipartFile
import software.amazon.awssdk.core.sync.RequestBody
import software.amazon.awssdk.services.s3.S3Client
import software.amazon.awssdk.services.s3.model.PutObjectRequest
import java.util.UUID

@Service
class S3StorageService(
    @Value("\${s3.bucket:uploads}") private val bucket: String,
) {
    private val client: S3Client = S3Client.create()

    fun store(file: MultipartFile): String {
        val key = UUID.randomUUID().toString() + "-" + (file.originalFilename ?: "file")
        val request = PutObjectRequest.builder()
            .bucket(bucket)
            .key(key)
            .contentType(file.contentType)
            .build()
        client.putObject(request, RequestBody.fromBytes(file.bytes))
        return key
    }
}
`, c.BasePackage)
}

func (t *Target) openAPIConfig(c *gen.Config) string {
	return fmt.Sprintf(`package %s.config

import io.swagger.v3.oas.models.OpenAPI
import io.swagger.v3.oas.models.info.Info
import org.springframework.context.annotation.Bean
import org.springframework.context.annotation.Configuration

@Configuration
class OpenApiConfig {

    @Bean
    fun api(): OpenAPI = OpenAPI().info(
        Info().title(%q).version("v1"),
    )
}
`, c.BasePackage, c.ProjectName)
}

func (t *Target) rateLimitFilter(c *gen.Config) string {
	return fmt.Sprintf(`package %s.config

import io.github.bucket4j.Bandwidth
import io.github.bucket4j.Bucket
import jakarta.servlet.FilterChain
import jakarta.servlet.http.HttpServletRequest
import jakarta.servlet.http.HttpServletResponse
import org.springframework.stereotype.Component
import org.springframework.web.filter.OncePerRequestFilter
import java.time.Duration
import java.util.concurrent.ConcurrentHashMap

@Component
class RateLimitFilter : OncePerRequestFilter() {

    private val buckets = ConcurrentHashMap<String, Bucket>()

    private fun bucketFor(ip: String): Bucket = buckets.computeIfAbsent(ip) {
        Bucket.builder()
            .addLimit(Bandwidth.builder().capacity(100).refillGreedy(100, Duration.ofMinutes(1)).build())
            .build()
    }

    override fun doFilterInternal(
        request: HttpServletRequest,
        response: HttpServletResponse,
        filterChain: FilterChain,
    ) {
        if (bucketFor(request.remoteAddr).tryConsume(1)) {
            filterChain.doFilter(request, response)
        } else {
            response.status = 429
        }
    }
}
`, c.BasePackage)
}

func (t *Target) etagConfig(c *gen.Config) string {
	return fmt.Sprintf(`package %s.config

import org.springframework.context.annotation.Bean
import org.springframework.context.annotation.Configuration
import org.springframework.web.filter.ShallowEtagHeaderFilter

@Configuration
class EtagConfig {

    @Bean
    fun etagFilter(): ShallowEtagHeaderFilter = ShallowEtagHeaderFilter()
}
`, c.BasePackage)
}
