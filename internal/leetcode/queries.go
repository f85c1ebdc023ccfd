package leetcode

const questionProgressQuery = `
query userProfileUserQuestionProgressV2($userSlug: String!) {
  userProfileUserQuestionProgressV2(userSlug: $userSlug) {
    totalQuestionBeatsPercentage
    numAcceptedQuestions { count difficulty }
    numFailedQuestions { count difficulty }
    numUntouchedQuestions { count difficulty }
    userSessionBeatsPercentage { difficulty percentage }
  }
}`

const calendarQuery = `
query userProfileCalendar($userSlug: String!, $year: Int) {
  userProfileCalendar(userSlug: $userSlug, year: $year) {
    activeYears
    streak
    totalActiveDays
    submissionCalendar
  }
}`

const submissionStatsQuery = `
query userProfileUserQuestionSubmissionStats($userSlug: String!) {
  userProfileUserQuestionSubmissionStats(userSlug: $userSlug) {
    totalSubmissionNum { difficulty count submissions }
    acSubmissionNum { difficulty count submissions }
  }
}`

const skillStatsQuery = `
query skillStats($userSlug: String!) {
  skillStats(userSlug: $userSlug) {
    tagProblemCounts {
      advanced { tagName tagSlug problemsSolved }
      intermediate { tagName tagSlug problemsSolved }
      fundamental { tagName tagSlug problemsSolved }
    }
  }
}`

const languageStatsQuery = `
query languageStats($userSlug: String!) {
  languageStats(userSlug: $userSlug) {
    languageName
    problemsSolved
  }
}`

const allQuestionsCountQuery = `
query allQuestionsCount {
  allQuestionsCount { difficulty count }
}`

const recentSubmissionsQuery = `
query recentAcSubmissions($userSlug: String!, $limit: Int) {
  recentAcSubmissionList(username: $userSlug, limit: $limit) {
    id
    title
    titleSlug
    lang
    timestamp
  }
}`

const questionDifficultyQuery = `
query questionDifficulty($titleSlug: String!) {
  question(titleSlug: $titleSlug) { difficulty }
}`
