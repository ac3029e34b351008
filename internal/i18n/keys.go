// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Users
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserInvited        = "user.invited"

	// Publishers
	KeyPublisherNotFound    = "publisher.not_found"
	KeyPublisherSlugTaken   = "publisher.slug_taken"
	KeyPublisherTierUpdated = "publisher.tier_updated"

	// Game IPs and assets
	KeyGameIPCreated   = "game_ip.created"
	KeyGameIPNotFound  = "game_ip.not_found"
	KeyIPAssetCreated  = "ip_asset.created"
	KeyIPAssetUpdated  = "ip_asset.updated"
	KeyIPAssetDeleted  = "ip_asset.deleted"
	KeyIPAssetNotFound = "ip_asset.not_found"

	// Products
	KeyProductCreated       = "product.created"
	KeyProductUpdated       = "product.updated"
	KeyProductDeleted       = "product.deleted"
	KeyProductNotFound      = "product.not_found"
	KeyProductMappingSaved  = "product.mapping_saved"
	KeyProductMappingFailed = "product.mapping_failed"

	// Connectors
	KeyConnectorCreated    = "connector.created"
	KeyConnectorNotFound   = "connector.not_found"
	KeyConnectorImportDone = "connector.import_done"
	KeyConnectorImportBad  = "connector.import_failed"

	// Analytics
	KeyAnalyticsNoSales            = "analytics.no_sales"
	KeySnapshotGenerationStarted   = "analytics.snapshot_generation_started"
	KeySnapshotGenerationCompleted = "analytics.snapshot_generation_completed"

	// AI insights
	KeyInsightGenerated        = "insight.generated"
	KeyInsightGenerationFailed = "insight.generation_failed"
	KeyInsightNotFound         = "insight.not_found"
	KeyInsightUpdated          = "insight.updated"

	// Billing
	KeyBillingCheckoutCreated = "billing.checkout_created"
	KeyBillingFailed          = "billing.failed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileTooLarge      = "file.too_large"
)
