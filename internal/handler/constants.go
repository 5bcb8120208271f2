package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for edit routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteGallery is the public photo gallery route.
	RouteGallery = "/gallery"
	// RouteEvents is the events route.
	RouteEvents = "/events"
	// RouteBlog is the blog route.
	RouteBlog = "/blog"
	// RouteSponsors is the sponsors route.
	RouteSponsors = "/sponsors"
	// RouteMembers is the members route.
	RouteMembers = "/members"
	// RouteJoin is the public join form route.
	RouteJoin = "/join"
	// RouteProfile is the own-profile route.
	RouteProfile = "/profile"

	// RouteAlbums is the albums admin route.
	RouteAlbums = "/albums"
	// RoutePosts is the posts admin route.
	RoutePosts = "/posts"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteApplications is the applications admin route.
	RouteApplications = "/applications"
	// RouteAuditLog is the audit log admin route.
	RouteAuditLog = "/audit-log"
)

const (
	redirectAdmin             = "/admin"
	redirectAdminAlbums       = redirectAdmin + RouteAlbums
	redirectAdminAlbumsNew    = redirectAdminAlbums + RouteSuffixNew
	redirectAdminEvents       = redirectAdmin + RouteEvents
	redirectAdminEventsNew    = redirectAdminEvents + RouteSuffixNew
	redirectAdminPosts        = redirectAdmin + RoutePosts
	redirectAdminPostsNew     = redirectAdminPosts + RouteSuffixNew
	redirectAdminSponsors     = redirectAdmin + RouteSponsors
	redirectAdminSponsorsNew  = redirectAdminSponsors + RouteSuffixNew
	redirectAdminUsers        = redirectAdmin + RouteUsers
	redirectAdminApplications = redirectAdmin + RouteApplications
	redirectLogin             = RouteLogin
	redirectGallery           = RouteGallery
	redirectEvents            = RouteEvents
	redirectJoin              = RouteJoin
	redirectProfile           = RouteProfile

	redirectAdminAlbumsID = redirectAdminAlbums + "/%d"
)
