package rust

import (
	"fmt"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/compiler/gen/seed"
	"github.com/apiforge/forge/schema"
)

// GenFeaturePacks generates the cross-cutting feature files: auth, API
// docs, rate limiting and seed data.
func (t *Target) GenFeaturePacks(s *schema.Schema, c *gen.Config) []gen.File {
	var files []gen.File
	if c.FeatureEnabled(gen.FeatureJWTAuth.Name) {
		files = append(files, gen.File{Path: "src/auth.rs", Content: t.authRS(c)})
	}
	if c.FeatureEnabled(gen.FeatureOpenAPI.Name) {
		files = append(files, gen.File{Path: "src/docs.rs", Content: t.docsRS(c)})
	}
	if c.FeatureEnabled(gen.FeatureRateLimiting.Name) {
		files = append(files, gen.File{Path: "src/ratelimit.rs", Content: t.ratelimitRS(c)})
	}
	if c.FeatureEnabled(gen.FeatureSeedData.Name) {
		files = append(files, gen.File{Path: "seeds/seed.sql", Content: seed.SQL(s, c)})
	}
	return files
}

func (t *Target) docsRS(c *gen.Config) string {
	return fmt.Sprintf(`use utoipa::OpenApi;

#[derive(OpenApi)]
#[openapi(info(title = %q, version = "v1"))]
struct ApiDoc;

pub fn openapi() -> utoipa::openapi::OpenApi {
    ApiDoc::openapi()
}
`, c.ProjectName)
}

func (t *Target) authRS(c *gen.Config) string {
	return fmt.Sprintf(authTemplate, 60*c.ParamInt("auth/jwt.expiration-minutes", 60))
}

const authTemplate = `use axum::extract::Request;
use axum::http::StatusCode;
use axum::middleware::Next;
use axum::response::Response;
use axum::routing::post;
use axum::{Json, Router};
use jsonwebtoken::{decode, encode, DecodingKey, EncodingKey, Header, Validation};
use serde::{Deserialize, Serialize};

use crate::state::AppState;

#[derive(Debug, Serialize, Deserialize)]
pub struct Claims {
    pub sub: String,
    pub exp: usize,
}

#[derive(Debug, Deserialize)]
pub struct LoginRequest {
    pub username: String,
    pub password: String,
}

#[derive(Debug, Serialize)]
pub struct TokenResponse {
    pub token: String,
}

fn secret() -> Vec<u8> {
    std::env::var("JWT_SECRET")
        .unwrap_or_else(|_| "change-me".into())
        .into_bytes()
}

pub fn issue(subject: &str) -> Result<String, jsonwebtoken::errors::Error> {
    let expiration: i64 = std::env::var("JWT_EXPIRATION")
        .ok()
        .and_then(|v| v.parse().ok())
        .unwrap_or(%d);
    let claims = Claims {
        sub: subject.to_string(),
        exp: (chrono::Utc::now().timestamp() + expiration) as usize,
    };
    encode(&Header::default(), &claims, &EncodingKey::from_secret(&secret()))
}

pub fn verify(token: &str) -> Option<Claims> {
    decode::<Claims>(
        token,
        &DecodingKey::from_secret(&secret()),
        &Validation::default(),
    )
    .map(|data| data.claims)
    .ok()
}

pub async fn require_auth(request: Request, next: Next) -> Result<Response, StatusCode> {
    let token = request
        .headers()
        .get("Authorization")
        .and_then(|v| v.to_str().ok())
        .and_then(|v| v.strip_prefix("Bearer "));
    match token.and_then(verify) {
        Some(_) => Ok(next.run(request).await),
        None => Err(StatusCode::UNAUTHORIZED),
    }
}

async fn login(Json(payload): Json<LoginRequest>) -> Result<Json<TokenResponse>, StatusCode> {
    // Credential lookup is deployment-specific; wire it to your user store.
    if payload.username.is_empty() || payload.password.is_empty() {
        return Err(StatusCode::UNAUTHORIZED);
    }
    let token = issue(&payload.username).map_err(|_| StatusCode::INTERNAL_SERVER_ERROR)?;
    Ok(Json(TokenResponse { token }))
}

pub fn router() -> Router<AppState> {
    Router::new().route("/api/auth/login", post(login))
}
`

func (t *Target) ratelimitRS(c *gen.Config) string {
	return fmt.Sprintf(`use std::sync::Arc;

use tower_governor::governor::GovernorConfigBuilder;
use tower_governor::GovernorLayer;

pub fn layer() -> GovernorLayer {
    let config = Arc::new(
        GovernorConfigBuilder::default()
            .per_second(%d)
            .burst_size(%d)
            .finish()
            .expect("valid governor configuration"),
    );
    GovernorLayer { config }
}
`, c.ParamInt("ratelimit.per-second", 2), c.ParamInt("ratelimit.burst", 50))
}
