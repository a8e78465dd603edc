package sqlanswer

// schemaContext describes the warehouse marts the translator may query.
// Kept as a static prompt block: the mart layout only changes with the
// upstream dbt project.
const schemaContext = `
Available tables in the MARTS schema:

1. MARTS.MART_ARTIST_SUMMARY
   - ARTIST_ID (Varchar): artist identifier
   - ARTIST_NAME (Varchar): artist name
   - ARTIST_FOLLOWERS (Number): number of followers
   - ARTIST_POPULARITY (Number): artist popularity score (0-100)
   - ARTIST_TIER (Varchar): artist tier classification
   - NUM_TRACKS (Number): number of tracks by artist
   - AVG_TRACK_POPULARITY (Number): average popularity of the artist's tracks
   - MAX_TRACK_POPULARITY (Number): highest track popularity
   - MIN_TRACK_POPULARITY (Number): lowest track popularity

2. MARTS.MART_TOP_TRACKS
   - TRACK_ID (Varchar): track identifier
   - TRACK_NAME (Varchar): track name
   - ARTIST_ID (Varchar): artist identifier
   - ARTIST_NAME (Varchar): artist name
   - TRACK_POPULARITY (Number): track popularity score (0-100)
   - POPULARITY_RANK (Number): rank by popularity

3. MARTS.MART_USER_DAILY_PLAYS
   - TRACK_ID (Varchar): track identifier
   - TRACK_NAME (Varchar): track name
   - ARTIST_NAME (Varchar): artist name
   - TRACK_LANGUAGE (Varchar): track language
   - TOTAL_PLAYS (Number): total number of plays
   - TOTAL_SKIPS (Number): total number of skips
   - SKIP_RATE_PERCENT (Float): skip rate percentage
   - COMPLETION_RATE_PERCENT (Number): completion rate percentage
   - UNIQUE_LISTENERS (Number): number of unique listeners
   - ENGAGEMENT_TIER (Varchar): engagement tier

Important notes:
- Use ARTIST_NAME and TRACK_NAME for searches (case-insensitive with ILIKE)
- Join tables using ARTIST_ID and TRACK_ID
- All popularity scores are on a 0-100 scale
`

const translatePrompt = `You are an expert SQL writer for music streaming analytics using clean mart data.

%s

Convert this question into a valid SQL query:
%q

Rules:
1. Return a valid SQL query that best answers the user's question
2. Use full table names: MARTS.MART_ARTIST_SUMMARY, MARTS.MART_TOP_TRACKS, MARTS.MART_USER_DAILY_PLAYS
3. Use ILIKE for case-insensitive text searches on names
4. Interpret user questions flexibly - they won't use exact column names
5. For artist questions, use MARTS.MART_ARTIST_SUMMARY
6. For track questions, use MARTS.MART_TOP_TRACKS or MARTS.MART_USER_DAILY_PLAYS
7. For engagement or listening questions, use MARTS.MART_USER_DAILY_PLAYS
8. Limit results to 10 unless the user asks for more
9. Use meaningful column aliases

Example interpretations:
- "which artists have most followers" -> SELECT ARTIST_NAME, ARTIST_FOLLOWERS FROM MARTS.MART_ARTIST_SUMMARY ORDER BY ARTIST_FOLLOWERS DESC LIMIT 10
- "what are popular songs" -> SELECT TRACK_NAME, ARTIST_NAME, TRACK_POPULARITY FROM MARTS.MART_TOP_TRACKS ORDER BY TRACK_POPULARITY DESC LIMIT 10
- "what languages do I listen to" -> SELECT TRACK_LANGUAGE, COUNT(*) AS TRACK_COUNT FROM MARTS.MART_USER_DAILY_PLAYS GROUP BY TRACK_LANGUAGE ORDER BY TRACK_COUNT DESC
- "songs I skip a lot" -> SELECT TRACK_NAME, SKIP_RATE_PERCENT FROM MARTS.MART_USER_DAILY_PLAYS WHERE SKIP_RATE_PERCENT > 30 ORDER BY SKIP_RATE_PERCENT DESC

Return only the SQL statement.`
