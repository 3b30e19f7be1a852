package database

// Schema is the full DDL. Uniqueness that the service layer checks
// optimistically (likes, bookmarks, retweets, purchases) is also
// enforced here so a lost check-then-act race surfaces as a
// constraint violation instead of a duplicate row.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	mobile TEXT NOT NULL UNIQUE,
	password_hash TEXT,
	role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	avatar TEXT,
	is_influencer BOOLEAN NOT NULL DEFAULT FALSE,
	influencer_url TEXT,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_date TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS posts (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content TEXT,
	images TEXT[] NOT NULL DEFAULT '{}',
	like_count INT NOT NULL DEFAULT 0,
	share_count INT NOT NULL DEFAULT 0,
	bookmark_count INT NOT NULL DEFAULT 0,
	is_retweet BOOLEAN NOT NULL DEFAULT FALSE,
	original_post_id UUID REFERENCES posts(id) ON DELETE CASCADE,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_date TIMESTAMPTZ,
	CHECK (is_retweet OR content IS NOT NULL OR array_length(images, 1) > 0),
	CHECK (NOT is_retweet OR original_post_id IS NOT NULL)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_one_retweet
	ON posts (user_id, original_post_id) WHERE is_retweet;
CREATE INDEX IF NOT EXISTS idx_posts_feed ON posts (creation_date DESC);

CREATE TABLE IF NOT EXISTS comments (
	id UUID PRIMARY KEY,
	post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content TEXT,
	images TEXT[] NOT NULL DEFAULT '{}',
	like_count INT NOT NULL DEFAULT 0,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_date TIMESTAMPTZ,
	CHECK (content IS NOT NULL OR array_length(images, 1) > 0)
);

CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id, creation_date);

CREATE TABLE IF NOT EXISTS likes (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	post_id UUID REFERENCES posts(id) ON DELETE CASCADE,
	comment_id UUID REFERENCES comments(id) ON DELETE CASCADE,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK ((post_id IS NULL) <> (comment_id IS NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_post
	ON likes (user_id, post_id) WHERE post_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_comment
	ON likes (user_id, comment_id) WHERE comment_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS bookmarks (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, post_id)
);

CREATE TABLE IF NOT EXISTS reels (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	video_url TEXT NOT NULL,
	content TEXT,
	duration INT NOT NULL CHECK (duration BETWEEN 1 AND 300),
	like_count INT NOT NULL DEFAULT 0,
	share_count INT NOT NULL DEFAULT 0,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_date TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_reels_feed ON reels (creation_date DESC);

CREATE TABLE IF NOT EXISTS reel_comments (
	id UUID PRIMARY KEY,
	reel_id UUID NOT NULL REFERENCES reels(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content TEXT,
	images TEXT[] NOT NULL DEFAULT '{}',
	like_count INT NOT NULL DEFAULT 0,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_date TIMESTAMPTZ,
	CHECK (content IS NOT NULL OR array_length(images, 1) > 0)
);

CREATE INDEX IF NOT EXISTS idx_reel_comments_reel ON reel_comments (reel_id, creation_date);

CREATE TABLE IF NOT EXISTS reel_likes (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	reel_id UUID REFERENCES reels(id) ON DELETE CASCADE,
	reel_comment_id UUID REFERENCES reel_comments(id) ON DELETE CASCADE,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK ((reel_id IS NULL) <> (reel_comment_id IS NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_reel_likes_user_reel
	ON reel_likes (user_id, reel_id) WHERE reel_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_reel_likes_user_comment
	ON reel_likes (user_id, reel_comment_id) WHERE reel_comment_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS courses (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	price INT NOT NULL CHECK (price >= 0),
	original_price INT CHECK (original_price >= 0),
	level TEXT NOT NULL CHECK (level IN ('beginner', 'intermediate', 'advanced')),
	category TEXT NOT NULL,
	thumbnail TEXT,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_date TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS course_videos (
	id UUID PRIMARY KEY,
	course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	video_url TEXT NOT NULL,
	duration INT NOT NULL CHECK (duration > 0),
	order_index INT NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_date TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_course_videos_course ON course_videos (course_id, order_index);

CREATE TABLE IF NOT EXISTS course_purchases (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	purchase_price INT NOT NULL,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, course_id)
);

CREATE TABLE IF NOT EXISTS blog_posts (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	summary TEXT NOT NULL,
	content TEXT NOT NULL,
	published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	source_name TEXT,
	source_url TEXT,
	tags TEXT[] NOT NULL DEFAULT '{}',
	regions TEXT[] NOT NULL DEFAULT '{}',
	companies TEXT[] NOT NULL DEFAULT '{}',
	sector TEXT,
	financial_figures TEXT[] NOT NULL DEFAULT '{}',
	image_url TEXT,
	image_prompt TEXT,
	view_count INT NOT NULL DEFAULT 0,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_blog_posts_published ON blog_posts (published_at DESC);

CREATE TABLE IF NOT EXISTS waitlist_users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	mobile TEXT,
	creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
